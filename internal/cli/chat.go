package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var topic string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the AI relationship coach",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if interactive {
				return chatLoop(ctx, topic)
			}

			message := strings.Join(args, " ")
			if message == "" {
				return fmt.Errorf("provide a message or use --interactive")
			}

			resp, err := apiClient.Chat(ctx, message, topic)
			if err != nil {
				return fmt.Errorf("chat failed: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(resp)
			}
			fmt.Println(resp.Reply)
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "conversation topic (e.g. conflict, intimacy, trust)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive session")

	return cmd
}

func chatLoop(ctx context.Context, topic string) error {
	fmt.Println("Chatting with your coach. Type 'quit' to end the session.")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		resp, err := apiClient.Chat(ctx, line, topic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", resp.Reply)
	}
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <description>",
		Short: "Practice a difficult conversation in roleplay",
		Long: `Starts an interactive roleplay session. The coach plays the other
person in the scenario you describe, then breaks character with feedback.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scenario := strings.Join(args, " ")

			// The server opens the scenario when the message is empty
			resp, err := apiClient.PlayScenario(ctx, scenario, "")
			if err != nil {
				return fmt.Errorf("scenario failed: %w", err)
			}
			fmt.Printf("\n%s\n\n", resp.Reply)

			fmt.Println("You are in the scenario now. Type 'quit' to end.")
			reader := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("> ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					return nil
				}

				resp, err := apiClient.PlayScenario(ctx, scenario, line)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					continue
				}
				fmt.Printf("\n%s\n\n", resp.Reply)
			}
		},
	}

	return cmd
}
