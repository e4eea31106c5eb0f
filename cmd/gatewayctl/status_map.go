package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

func statusMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status-map",
		Short: "Print the effective gateway to order status mapping",
		Long: `Print the mapping notifications use after STATUS_MAPPING_FILE overrides
are merged into the defaults. Statuses without a mapping fall back to the
error status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			statuses := lo.Keys(cfg.Status.Mapping)
			sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GATEWAY STATUS\tORDER STATUS")
			for _, s := range statuses {
				fmt.Fprintf(w, "%s\t%s\n", s, cfg.Status.Mapping[s])
			}
			fmt.Fprintf(w, "%s\t%s\n", "(unknown)", cfg.Status.ErrorStatus)
			if err := w.Flush(); err != nil {
				return err
			}

			if cfg.Status.ShippedTriggerStatus != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nshipment is pushed when an order enters %q\n", cfg.Status.ShippedTriggerStatus)
			}
			if _, ok := cfg.Status.Mapping[domain.TransactionStatusInitialized]; !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: no mapping for initialized; pending orders cannot be reused")
			}
			return nil
		},
	}
}
