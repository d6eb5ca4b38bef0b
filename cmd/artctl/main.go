// artctl ART ledger için operatör aracı: kurallar, manuel düzeltmeler, geçmiş ve servis token'ları.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stickerart/art-ledger/internal/app"
	"github.com/stickerart/art-ledger/internal/config"
	"github.com/stickerart/art-ledger/internal/logger"
)

// offlineAnnotation servislere ihtiyaç duymayan komutlar (token)
const offlineAnnotation = "offline"

type cli struct {
	cfg     *config.Config
	app     *app.App
	jsonOut bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "artctl",
		Short:         "ART ledger operatör aracı",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.LoadConfig()
			logger.Init(c.cfg.AppEnv, c.cfg.LogLevel)

			if cmd.Annotations[offlineAnnotation] == "true" {
				return nil
			}
			a, err := app.New(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
				c.app = nil
			}
		},
	}
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Çıktıyı JSON olarak yaz")

	root.AddCommand(
		c.rulesCmd(),
		c.awardCmd(),
		c.adjustCmd(),
		c.historyCmd(),
		c.journalCmd(),
		c.balanceCmd(),
		c.packagesCmd(),
		c.purchasesCmd(),
		c.tokenCmd(),
	)
	return root
}

func (c *cli) printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// actor audit kaydına yazılan kullanıcı
func actor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "cli:" + u.Username
	}
	return "cli:unknown"
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
