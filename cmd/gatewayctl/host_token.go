package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kevin07696/checkout-bridge/internal/auth"
)

func hostTokenCmd() *cobra.Command {
	var shopID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "host-token",
		Short: "Sign a token for the host platform's order update hooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shopID == "" {
				return errors.New("--shop-id is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tokens, err := auth.NewHostTokenManager(cfg.Auth.HostJWTSecret, cfg.Auth.HostJWTIssuer)
			if err != nil {
				return err
			}
			token, err := tokens.GenerateToken(shopID, []string{auth.ScopeOrderUpdates}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&shopID, "shop-id", "", "host shop identifier")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
