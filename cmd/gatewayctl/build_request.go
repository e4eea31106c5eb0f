package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
)

// fixture is the JSON file build-request reads
type fixture struct {
	Option      string            `json:"option"`
	Reference   string            `json:"reference,omitempty"`
	Cart        *domain.Cart      `json:"cart"`
	Customer    *domain.Customer  `json:"customer"`
	GatewayInfo map[string]string `json:"gateway_info,omitempty"`
	TokenID     string            `json:"token_id,omitempty"`
	SaveToken   bool              `json:"save_token,omitempty"`
}

func buildRequestCmd() *cobra.Command {
	var option, reference string

	cmd := &cobra.Command{
		Use:   "build-request FIXTURE",
		Short: "Assemble the gateway order request for a cart without sending it",
		Long: `Read a JSON fixture with "option", "cart", "customer" and optional
"gateway_info", run the same assembly as a checkout and print the order
request. With a reference the order id is the reference, otherwise the cart id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			var fx fixture
			if err := json.Unmarshal(raw, &fx); err != nil {
				return fmt.Errorf("decode fixture: %w", err)
			}
			if option != "" {
				fx.Option = option
			}
			if reference != "" {
				fx.Reference = reference
			}
			if fx.Cart == nil {
				return fmt.Errorf("fixture has no cart")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := newRegistry(cfg)
			if err != nil {
				return err
			}
			opt, err := registry.Get(fx.Option)
			if err != nil {
				return err
			}

			in := orderrequest.Input{
				Cart:        fx.Cart,
				Customer:    fx.Customer,
				Option:      opt,
				GatewayInfo: fx.GatewayInfo,
				TokenID:     fx.TokenID,
				SaveToken:   fx.SaveToken,
			}
			if fx.Reference != "" {
				in.Order = &domain.Order{CartID: fx.Cart.ID, Reference: fx.Reference}
			}

			builder := orderrequest.NewBuilder(cfg.Checkout, cfg.Server.PublicBaseURL, zap.NewNop())
			req, err := builder.Build(in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(req)
		},
	}

	cmd.Flags().StringVar(&option, "option", "", "payment option code, overrides the fixture")
	cmd.Flags().StringVar(&reference, "reference", "", "order reference, overrides the fixture")

	return cmd
}
