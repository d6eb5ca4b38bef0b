package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stickerart/art-ledger/internal/models"
)

func (c *cli) rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "ART kurallarını yönet",
	}
	cmd.AddCommand(c.rulesListCmd(), c.rulesSetCmd())
	return cmd
}

func (c *cli) rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Tüm kuralları listele",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := c.app.Rules.ListRules(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), rules)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tDIRECTION\tAMOUNT\tENABLED\tDESCRIPTION")
			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\n", r.Code, r.Direction, r.Amount, r.Enabled, r.Description)
			}
			return w.Flush()
		},
	}
}

func (c *cli) rulesSetCmd() *cobra.Command {
	var (
		direction   string
		amount      int64
		enabled     bool
		description string
	)

	cmd := &cobra.Command{
		Use:   "set CODE",
		Short: "Kuralı güncelle, yoksa oluştur",
		Long: `Sadece verilen flag'ler değiştirilir. Kural yoksa --direction zorunludur.
Değişiklik audit log'a yazılır ve kural cache'i temizlenir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			flags := cmd.Flags()

			in := &models.RuleInput{}
			if flags.Changed("direction") {
				d := models.Direction(strings.ToUpper(direction))
				in.Direction = &d
			}
			if flags.Changed("amount") {
				in.Amount = &amount
			}
			if flags.Changed("enabled") {
				in.Enabled = &enabled
			}
			if flags.Changed("description") {
				in.Description = &description
			}

			rule, err := c.app.Rules.UpdateRule(cmd.Context(), code, in, actor())
			if errors.Is(err, models.ErrNotFound) {
				if in.Direction == nil {
					return fmt.Errorf("%s kuralı yok, oluşturmak için --direction gerekli", code)
				}
				next := &models.Rule{Code: code, Enabled: true}
				next.ApplyInput(in)
				rule, err = c.app.Rules.CreateRule(cmd.Context(), next, actor())
			}
			if err != nil {
				return err
			}

			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), rule)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d enabled=%t\n", rule.Code, rule.Direction, rule.Amount, rule.Enabled)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "CREDIT veya DEBIT")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Varsayılan miktar")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Kural etkin mi")
	cmd.Flags().StringVar(&description, "description", "", "Açıklama")
	return cmd
}
