package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stickerart/art-ledger/internal/models"
)

func (c *cli) packagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "Satın alınabilir Stars paketleri",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			packages, err := c.app.Stars.ListActivePackages(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), packages)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tNAME\tSTARS\tART")
			for _, p := range packages {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Code, p.Name, p.StarsPrice, p.ArtAmount)
			}
			return w.Flush()
		},
	}
}

func (c *cli) purchasesCmd() *cobra.Command {
	var userID int64
	var page models.PageParams

	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "Kullanıcının Stars satın alımları, en yeni önce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			purchases, err := c.app.Stars.PurchaseHistory(cmd.Context(), userID, page)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), purchases)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPACKAGE\tSTARS\tART\tCHARGE ID\tCREATED AT")
			for _, p := range purchases {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n",
					p.ID, p.PackageCode, p.StarsPaid, p.ArtCredited, p.TelegramChargeID, p.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Kullanıcı id")
	addPageFlags(cmd, &page)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
