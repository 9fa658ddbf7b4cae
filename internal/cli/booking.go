package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/attune-labs/attune/pkg/client"
)

func newBookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Coaching session commands",
	}

	cmd.AddCommand(newBookingListCmd())
	cmd.AddCommand(newBookingBookCmd())
	cmd.AddCommand(newBookingSOSCmd())
	cmd.AddCommand(newBookingCancelCmd())

	return cmd
}

func newBookingListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your coaching sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := apiClient.Bookings().List(context.Background(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(bookings)
			}

			table := NewTable("ID", "WHEN", "KIND", "TOPIC", "STATUS")
			for _, b := range bookings {
				table.AddRow(b.ID, b.StartsAt.Format("2006-01-02 15:04"), b.Kind, truncate(b.Topic, 40), b.Status)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "sessions to skip")

	return cmd
}

func newBookingBookCmd() *cobra.Command {
	var topic, notes, when string
	var priority bool

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a coaching session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if topic == "" {
				topic = promptInput("Topic: ")
			}
			if when == "" {
				when = promptInput("When (RFC3339, e.g. 2026-09-01T18:00:00Z): ")
			}

			startsAt, err := time.Parse(time.RFC3339, when)
			if err != nil {
				return fmt.Errorf("invalid start time %q: %w", when, err)
			}

			req := client.CreateBookingRequest{
				Topic:    topic,
				Notes:    notes,
				StartsAt: startsAt,
			}

			var b *client.Booking
			if priority {
				b, err = apiClient.Bookings().CreatePriority(context.Background(), req)
			} else {
				b, err = apiClient.Bookings().Create(context.Background(), req)
			}
			if err != nil {
				return fmt.Errorf("booking failed: %w", err)
			}

			fmt.Printf("Session %s booked for %s (%s)\n", b.ID, b.StartsAt.Format(time.RFC1123), b.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "what you want to work on")
	cmd.Flags().StringVar(&notes, "notes", "", "anything the coach should know beforehand")
	cmd.Flags().StringVar(&when, "at", "", "session start time (RFC3339)")
	cmd.Flags().BoolVar(&priority, "priority", false, "book a priority session (Growth tier and up)")

	return cmd
}

func newBookingSOSCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "sos <topic>",
		Short: "Book an emergency session in the next available slot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := args[0]
			for _, a := range args[1:] {
				topic += " " + a
			}

			b, err := apiClient.Bookings().CreateSOS(context.Background(), client.SOSBookingRequest{
				Topic: topic,
				Notes: notes,
			})
			if err != nil {
				return fmt.Errorf("SOS booking failed: %w", err)
			}

			fmt.Printf("Emergency session confirmed for %s\n", b.StartsAt.Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "anything the coach should know beforehand")

	return cmd
}

func newBookingCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a coaching session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := apiClient.Bookings().Cancel(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("cancellation failed: %w", err)
			}
			fmt.Printf("Session %s cancelled\n", b.ID)
			return nil
		},
	}
}
