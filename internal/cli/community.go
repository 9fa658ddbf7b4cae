package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommunityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Community feed commands",
	}

	cmd.AddCommand(newCommunityFeedCmd())
	cmd.AddCommand(newCommunityPostCmd())

	return cmd
}

func newCommunityFeedCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Read recent community posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := apiClient.Community().Feed(context.Background(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to load feed: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(posts)
			}

			for _, p := range posts {
				fmt.Printf("%s (%s)\n%s\n\n", p.AuthorName, p.CreatedAt.Format("2006-01-02 15:04"), p.Body)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum posts to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "posts to skip")

	return cmd
}

func newCommunityPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <body>",
		Short: "Share a post with the community",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := strings.Join(args, " ")

			p, err := apiClient.Community().CreatePost(context.Background(), body)
			if err != nil {
				return fmt.Errorf("failed to post: %w", err)
			}
			fmt.Printf("Posted as %s\n", p.AuthorName)
			return nil
		},
	}
}
