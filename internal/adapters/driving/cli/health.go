package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show chunk and embedding counts for the knowledge base",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().Bool("json", false, "print the health report as JSON")
	rootCmd.AddCommand(healthCmd)
}

// healthReport mirrors the GET /health response.
type healthReport struct {
	Status              string `json:"status"`
	APIKeySet           bool   `json:"api_key_set"`
	DiscourseChunks     int    `json:"discourse_chunks"`
	MarkdownChunks      int    `json:"markdown_chunks"`
	DiscourseEmbeddings int    `json:"discourse_embeddings"`
	MarkdownEmbeddings  int    `json:"markdown_embeddings"`
}

func runHealth(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	svc, err := requireQueryService()
	if err != nil {
		return err
	}

	stats, err := svc.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	forum := stats.For(domain.SourceForumPost)
	docs := stats.For(domain.SourceDocumentPage)

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(healthReport{
			Status:              "healthy",
			APIKeySet:           stats.APIKeySet,
			DiscourseChunks:     forum.Chunks,
			MarkdownChunks:      docs.Chunks,
			DiscourseEmbeddings: forum.Embedded,
			MarkdownEmbeddings:  docs.Embedded,
		})
	}

	cmd.Println("Knowledge Base")
	cmd.Println("==============")
	cmd.Printf("  Discourse posts:  %d chunks, %d embedded\n", forum.Chunks, forum.Embedded)
	cmd.Printf("  Course material:  %d chunks, %d embedded\n", docs.Chunks, docs.Embedded)
	cmd.Printf("  API key set:      %t\n", stats.APIKeySet)
	if !forum.Complete() || !docs.Complete() {
		cmd.Println()
		cmd.Println("Warning: some chunks have no embedding and will never be retrieved.")
	}
	return nil
}
