package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stickerart/art-ledger/internal/auth"
)

func (c *cli) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "token",
		Short:       "İç servisler için JWT üret",
		Annotations: map[string]string{offlineAnnotation: "true"},
	}
	cmd.AddCommand(c.tokenIssueCmd(), c.tokenRefreshCmd())
	return cmd
}

func (c *cli) tokenManager(ttl time.Duration) (*auth.TokenManager, error) {
	if ttl <= 0 {
		ttl = c.cfg.JWTTTL
	}
	return auth.NewTokenManager(c.cfg.JWTSecret, ttl)
}

func (c *cli) tokenIssueCmd() *cobra.Command {
	var (
		service string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:         "issue",
		Short:       "Servis token'ı üret",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range scopes {
				if s != auth.ScopeAward && s != auth.ScopeRead {
					return fmt.Errorf("bilinmeyen scope %q (%s, %s)", s, auth.ScopeAward, auth.ScopeRead)
				}
			}

			tm, err := c.tokenManager(ttl)
			if err != nil {
				return err
			}
			token, err := tm.GenerateToken(service, scopes...)
			if err != nil {
				return err
			}

			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"token":   token,
					"service": service,
					"scopes":  scopes,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Servis adı (ör. sticker-bot)")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeAward}, "Token scope'ları")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Geçerlilik süresi (varsayılan JWT_TTL)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func (c *cli) tokenRefreshCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:         "refresh TOKEN",
		Short:       "Süresi dolmuş token'ı aynı scope'larla yenile",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := c.tokenManager(ttl)
			if err != nil {
				return err
			}
			token, expiresIn, err := tm.RefreshToken(args[0])
			if err != nil {
				return err
			}

			if c.jsonOut {
				return c.printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"token":      token,
					"expires_in": expiresIn,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Yeni token'ın geçerlilik süresi")
	return cmd
}
