package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
	}

	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminSetTierCmd())
	cmd.AddCommand(newAdminPermissionsCmd())

	return cmd
}

func newAdminUsersCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List member accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := apiClient.Admin().ListUsers(context.Background(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(list)
			}

			table := NewTable("ID", "EMAIL", "NAME", "ROLE", "TIER")
			for _, u := range list.Users {
				table.AddRow(strconv.FormatInt(u.ID, 10), u.Email, u.DisplayName, u.Role, u.Tier)
			}
			table.Render()
			fmt.Printf("\n%d of %d users\n", len(list.Users), list.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum users to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "users to skip")

	return cmd
}

func newAdminSetTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-tier <user-id> <tier>",
		Short: "Change a user's subscription tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID %q", args[0])
			}

			if err := apiClient.Admin().SetTier(context.Background(), userID, args[1]); err != nil {
				return fmt.Errorf("failed to set tier: %w", err)
			}
			fmt.Printf("User %d moved to %s\n", userID, args[1])
			return nil
		},
	}
}

func newAdminPermissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "Show which tiers may use which features",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := apiClient.Admin().Permissions(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load permissions: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(table)
			}

			caps := make([]string, 0, len(table))
			for capName := range table {
				caps = append(caps, capName)
			}
			sort.Strings(caps)

			out := NewTable("CAPABILITY", "TIERS")
			for _, capName := range caps {
				out.AddRow(capName, strings.Join(table[capName], ", "))
			}
			out.Render()
			return nil
		},
	}
}
