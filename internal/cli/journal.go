package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/attune-labs/attune/pkg/client"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Relationship journal commands",
	}

	cmd.AddCommand(newJournalListCmd())
	cmd.AddCommand(newJournalShowCmd())
	cmd.AddCommand(newJournalWriteCmd())
	cmd.AddCommand(newJournalAnalyzeCmd())
	cmd.AddCommand(newJournalDeleteCmd())

	return cmd
}

func newJournalListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := apiClient.Journal().List(context.Background(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list entries: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(entries)
			}

			table := NewTable("ID", "DATE", "TITLE", "MOOD", "ANALYZED")
			for _, e := range entries {
				analyzed := ""
				if e.AnalyzedAt != nil {
					analyzed = "yes"
				}
				table.AddRow(e.ID, e.CreatedAt.Format("2006-01-02"), truncate(e.Title, 40), e.Mood, analyzed)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")

	return cmd
}

func newJournalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := apiClient.Journal().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get entry: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(entry)
			}

			fmt.Printf("%s\n", entry.Title)
			fmt.Printf("Written %s", entry.CreatedAt.Format(time.RFC1123))
			if entry.Mood != "" {
				fmt.Printf("  (mood: %s)", entry.Mood)
			}
			fmt.Printf("\n\n%s\n", entry.Body)
			if entry.Analysis != "" {
				fmt.Printf("\n--- Coach's reflection ---\n%s\n", entry.Analysis)
			}
			return nil
		},
	}
}

func newJournalWriteCmd() *cobra.Command {
	var title, body, mood string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a new journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				title = promptInput("Title: ")
			}
			if body == "" {
				body = promptInput("What happened? ")
			}

			entry, err := apiClient.Journal().Create(context.Background(), client.CreateEntryRequest{
				Title: title,
				Body:  body,
				Mood:  mood,
			})
			if err != nil {
				return fmt.Errorf("failed to create entry: %w", err)
			}

			fmt.Printf("Entry saved: %s\n", entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "entry title")
	cmd.Flags().StringVar(&body, "body", "", "entry body")
	cmd.Flags().StringVar(&mood, "mood", "", "current mood")

	return cmd
}

func newJournalAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Ask the coach to reflect on an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := apiClient.Journal().Analyze(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(entry)
			}
			fmt.Println(entry.Analysis)
			return nil
		},
	}
}

func newJournalDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				answer := promptInput("Delete this entry? This cannot be undone (y/N): ")
				if ok, _ := strconv.ParseBool(answer); !ok && answer != "y" && answer != "Y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			if err := apiClient.Journal().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete entry: %w", err)
			}
			fmt.Println("Entry deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
