package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question from the terminal",
	Long: `Runs the full answering pipeline once and prints the answer with its
citations. Useful for smoke-testing a corpus without starting the server.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", domain.DefaultTopK, "maximum number of citations")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the raw response envelope as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return &domain.ValidationError{Field: "question", Reason: "must be a non-empty string"}
	}

	_, svc, deps, _, err := buildService()
	if err != nil {
		return err
	}
	defer deps.Close()

	resp, err := svc.Ask(cmd.Context(), question, askTopK)
	if err != nil {
		return err
	}

	if askJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	if len(resp.Citations) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		for i, cit := range resp.Citations {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", i+1, cit.Source)
		}
	}
	return nil
}
