package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Subscription plan commands",
	}

	cmd.AddCommand(newPlansListCmd())
	cmd.AddCommand(newPlansUpgradeCmd())
	cmd.AddCommand(newPlansPortalCmd())

	return cmd
}

func newPlansListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available subscription tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := apiClient.Billing().Plans(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(plans)
			}

			table := NewTable("TIER", "PRICE", "REQUESTS/HOUR", "FEATURES")
			for _, p := range plans {
				price := "free"
				if p.MonthlyCents > 0 {
					price = fmt.Sprintf("$%d.%02d/mo", p.MonthlyCents/100, p.MonthlyCents%100)
				}
				table.AddRow(p.Tier, price, fmt.Sprintf("%d", p.RequestsPerHour), strings.Join(p.Features, ", "))
			}
			table.Render()
			return nil
		},
	}
}

func newPlansUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <tier>",
		Short: "Start a Stripe Checkout session for a tier upgrade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient.Billing().CreateCheckoutSession(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create checkout session: %w", err)
			}

			fmt.Println("Open this URL in your browser to complete the upgrade:")
			fmt.Println(session.URL)
			return nil
		},
	}
}

func newPlansPortalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portal",
		Short: "Open the Stripe billing portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient.Billing().CreatePortalSession(context.Background())
			if err != nil {
				return fmt.Errorf("failed to create portal session: %w", err)
			}

			fmt.Println("Open this URL in your browser to manage your subscription:")
			fmt.Println(session.URL)
			return nil
		},
	}
}
