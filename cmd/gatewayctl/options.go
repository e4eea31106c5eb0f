package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/money"
	"github.com/kevin07696/checkout-bridge/internal/services/paymentoption"
)

func optionsCmd() *cobra.Command {
	var currency, country, amount string
	var all bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the payment options a cart would be offered",
		Long: `List payment options after the enabled list and the currency, country
and amount limits are applied. Without filters every enabled option is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := newRegistry(cfg)
			if err != nil {
				return err
			}

			var opts []domain.PaymentOption
			if all {
				opts = registry.All()
			} else {
				filter := paymentoption.Filter{
					Currency: strings.ToUpper(currency),
					Country:  strings.ToUpper(country),
				}
				if amount != "" {
					total, err := decimal.NewFromString(amount)
					if err != nil {
						return fmt.Errorf("invalid --amount %q: %w", amount, err)
					}
					filter.AmountCents = money.PriceToCents(total)
				}
				opts = registry.Available(filter)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tTYPE\tCURRENCIES\tCOUNTRIES")
			for _, o := range opts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					o.Code, o.Name, o.Type, listOrAny(o.Currencies), listOrAny(o.Countries))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "cart currency, e.g. EUR")
	cmd.Flags().StringVar(&country, "country", "", "invoice country ISO code")
	cmd.Flags().StringVar(&amount, "amount", "", "order total, e.g. 24.20")
	cmd.Flags().BoolVar(&all, "all", false, "show every catalogue option, enabled or not")

	return cmd
}

// newRegistry builds the registry the server would build. The API key is
// assumed present so options are listed for a configured shop.
func newRegistry(cfg *config.Config) (*paymentoption.Registry, error) {
	catalogue := paymentoption.DefaultCatalogue()
	if cfg.Checkout.OptionsFile != "" {
		f, err := os.Open(cfg.Checkout.OptionsFile)
		if err != nil {
			return nil, fmt.Errorf("open payment options file: %w", err)
		}
		defer f.Close()
		if catalogue, err = paymentoption.LoadCatalogue(f); err != nil {
			return nil, err
		}
	}
	return paymentoption.NewRegistry(catalogue, cfg.Checkout.EnabledOptions, true, zap.NewNop()), nil
}

func listOrAny(values []string) string {
	if len(values) == 0 {
		return "any"
	}
	return strings.Join(lo.Uniq(values), ",")
}
