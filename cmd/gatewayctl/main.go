// Command gatewayctl is operator tooling for the checkout bridge: it previews
// order requests and prints the effective option and status configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevin07696/checkout-bridge/internal/config"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gatewayctl",
		Short:         "Inspect checkout bridge configuration and order requests",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(buildRequestCmd())
	root.AddCommand(statusMapCmd())
	root.AddCommand(optionsCmd())
	root.AddCommand(hostTokenCmd())

	return root
}

// loadConfig reads the same environment as the server
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
