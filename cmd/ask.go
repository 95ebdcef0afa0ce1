package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aiedit/internal/ai"
)

var askCodeFile string

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the AI assistant a single question",
	Long: `Send one question to the configured Ollama model and print the answer.
Use --code to include a source file as context.

Examples:
  aiedit ask "what does std::move do?"
  aiedit ask --code main.cpp why does this segfault`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var code string
		if askCodeFile != "" {
			data, err := os.ReadFile(askCodeFile)
			if err != nil {
				return fmt.Errorf("reading code: %w", err)
			}
			code = string(data)
		}

		_, ch := newAssistant().SendMessage(commandContext(cmd), ai.Conversation{}, strings.Join(args, " "), code)
		r := <-ch
		if r.Err != nil {
			return r.Err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Render())
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Ask the AI assistant for improvement suggestions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading code: %w", err)
		}
		r := <-newAssistant().RequestSuggestions(commandContext(cmd), string(data))
		fmt.Fprintln(cmd.OutOrStdout(), r.Render())
		return r.Err
	},
}

func init() {
	askCmd.Flags().StringVar(&askCodeFile, "code", "", "source file to send as context")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(suggestCmd)
}
