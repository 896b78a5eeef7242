package cli

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question from the command line",
	Long: `Answer a single question and print the cited sources.

Examples:
  tds-ta ask "Should I use gpt-4o-mini or gpt-3.5-turbo for GA5 Q8?"
  tds-ta ask --image screenshot.webp "What does this error mean?"
  tds-ta ask --json "When is the ROE exam?"`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("image", "i", "", "path to an image attached to the question")
	askCmd.Flags().Bool("json", false, "print the raw JSON response")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	imagePath, err := cmd.Flags().GetString("image")
	if err != nil {
		return fmt.Errorf("getting image flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	query := domain.Query{Question: strings.TrimSpace(strings.Join(args, " "))}
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		query.Image = base64.StdEncoding.EncodeToString(data)
	}
	if query.Question == "" && query.Image == "" {
		return errors.New("a question or --image is required")
	}

	svc, err := requireQueryService()
	if err != nil {
		return err
	}

	answer, err := svc.Ask(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if asJSON {
		if answer.Links == nil {
			answer.Links = []domain.CitationLink{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)
	if len(answer.Links) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, link := range answer.Links {
		cmd.Printf("  %d. %s\n", i+1, link.Text)
		cmd.Printf("     %s\n", link.URL)
	}
}
