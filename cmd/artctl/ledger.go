package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stickerart/art-ledger/internal/models"
)

func (c *cli) awardCmd() *cobra.Command {
	var (
		userID      int64
		ruleCode    string
		amount      int64
		externalID  string
		performedBy int64
		metadata    string
	)

	cmd := &cobra.Command{
		Use:   "award",
		Short: "Kurala göre ART hareketi uygula",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &models.AwardRequest{UserID: userID, RuleCode: ruleCode}
			if cmd.Flags().Changed("amount") {
				req.OverrideAmount = &amount
			}
			if externalID != "" {
				req.ExternalID = &externalID
			}
			if cmd.Flags().Changed("performed-by") {
				req.PerformedBy = &performedBy
			}
			if metadata != "" {
				req.Metadata = json.RawMessage(metadata)
			}

			tx, err := c.app.Ledger.Award(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.printTransactions(cmd.OutOrStdout(), []*models.Transaction{tx}, tx)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Kullanıcı id")
	cmd.Flags().StringVar(&ruleCode, "rule", "", "Kural kodu")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Kural miktarı yerine kullanılacak miktar")
	cmd.Flags().StringVar(&externalID, "external-id", "", "Idempotency anahtarı")
	cmd.Flags().Int64Var(&performedBy, "performed-by", 0, "İşlemi yapan kullanıcı id")
	cmd.Flags().StringVar(&metadata, "metadata", "", "JSON metadata")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("rule")
	return cmd
}

func (c *cli) adjustCmd() *cobra.Command {
	var (
		adminID int64
		userID  int64
		amount  int64
		message string
		notify  bool
	)

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Manuel bakiye düzeltmesi (pozitif ekler, negatif düşer)",
		Long: `--notify ile mesaj bot üzerinden kullanıcıya gönderilir.
Mesaj gönderilemese de transaction geri alınmaz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Admin.ManualTransaction(cmd.Context(), adminID, userID, amount, message, notify)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), result)
			}

			tx := result.Transaction
			fmt.Fprintf(cmd.OutOrStdout(), "transaction=%d rule=%s delta=%+d balance_after=%d\n",
				tx.ID, tx.RuleCode, tx.Delta, tx.BalanceAfter)
			if notify {
				fmt.Fprintf(cmd.OutOrStdout(), "messageSent=%t", result.MessageSent)
				if result.MessageError != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " messageError=%q", result.MessageError)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&adminID, "admin", 0, "Admin kullanıcı id")
	cmd.Flags().Int64Var(&userID, "user", 0, "Kullanıcı id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Miktar, negatif değer düşer")
	cmd.Flags().StringVar(&message, "message", "", "Kullanıcıya gösterilecek mesaj")
	cmd.Flags().BoolVar(&notify, "notify", false, "Mesajı bot ile gönder")
	_ = cmd.MarkFlagRequired("admin")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var userID int64
	var page models.PageParams

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Kullanıcının ART hareketleri, en yeni önce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Ledger.ListTransactions(cmd.Context(), userID, page)
			if err != nil {
				return err
			}
			return c.printTransactions(cmd.OutOrStdout(), result.Items, result)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Kullanıcı id")
	addPageFlags(cmd, &page)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (c *cli) journalCmd() *cobra.Command {
	var page models.PageParams

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Tüm kullanıcıların ART hareketleri, en yeni önce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Ledger.ListAllTransactions(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.printTransactions(cmd.OutOrStdout(), result.Items, result)
		},
	}

	addPageFlags(cmd, &page)
	return cmd
}

func (c *cli) balanceCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Kullanıcının ART bakiyesi",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := c.app.Ledger.GetBalance(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), balance)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user=%d balance=%d\n", balance.UserID, balance.Amount)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Kullanıcı id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func addPageFlags(cmd *cobra.Command, page *models.PageParams) {
	cmd.Flags().IntVar(&page.Limit, "limit", models.DefaultPageLimit, "Sayfa boyutu")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "Atlanacak kayıt sayısı")
}

// printTransactions tablo yazar, --json verilmişse jsonValue yazılır
func (c *cli) printTransactions(out io.Writer, txs []*models.Transaction, jsonValue interface{}) error {
	if c.jsonOut {
		return c.printJSON(out, jsonValue)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tRULE\tDELTA\tBALANCE\tEXTERNAL ID\tCREATED AT")
	for _, tx := range txs {
		ext := "-"
		if tx.ExternalID != nil {
			ext = *tx.ExternalID
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%+d\t%d\t%s\t%s\n",
			tx.ID, tx.UserID, tx.RuleCode, tx.Delta, tx.BalanceAfter, ext, tx.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
