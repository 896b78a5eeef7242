package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// Ensure AnswerSynthesizer can receive custom prompts.
var _ driven.PromptStoreAware = (*AnswerSynthesizer)(nil)

// defaultAnswerPrompt is used when no prompt store is configured.
const defaultAnswerPrompt = `You are a helpful teaching assistant. Answer the question using ONLY the context passages provided. If the context does not contain the answer, say "I don't have enough information to answer this question."

After the answer, add a "Sources:" section listing the passages you used, one per line:
1. URL: [exact_url], Text: [brief quote or description]

Only use URLs that appear in the context.`

// Generation defaults for answers.
const (
	answerMaxTokens   = 1024
	answerTemperature = 0.3
)

// AnswerSynthesizer asks the generation model for a cited answer.
type AnswerSynthesizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.ChatOptions
}

// NewAnswerSynthesizer creates a synthesizer over llm.
func NewAnswerSynthesizer(llm driven.LLMService) *AnswerSynthesizer {
	return &AnswerSynthesizer{
		llm: llm,
		opts: driven.ChatOptions{
			MaxTokens:   answerMaxTokens,
			Temperature: answerTemperature,
		},
	}
}

// SetPromptStore sets the store the system prompt is loaded from.
func (s *AnswerSynthesizer) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Synthesize answers question from passages.
// Without passages no model call is made and the no-information answer is returned.
// Only a failed model call is an error; malformed responses degrade to raw text.
func (s *AnswerSynthesizer) Synthesize(
	ctx context.Context,
	question string,
	passages []domain.EnrichedPassage,
) (domain.Answer, error) {
	if len(passages) == 0 {
		return domain.NoInformation(), nil
	}
	if s.llm == nil {
		return domain.Answer{}, fmt.Errorf("%w: no generation model configured", domain.ErrGenerationUnavailable)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.systemPrompt()},
		{Role: "user", Content: BuildAnswerPrompt(question, passages)},
	}

	raw, err := s.llm.Chat(ctx, messages, s.opts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}

	answer := NewCitationParser(passages).Parse(raw)
	logger.From(ctx).Debug("Answer has %d chars and %d citations", len(answer.Text), len(answer.Links))
	return answer, nil
}

func (s *AnswerSynthesizer) systemPrompt() string {
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptAnswerSystem); err == nil && p != "" {
			return p
		}
	}
	return defaultAnswerPrompt
}

// BuildAnswerPrompt renders the context passages, each tagged with its URL,
// followed by the question.
func BuildAnswerPrompt(question string, passages []domain.EnrichedPassage) string {
	var b strings.Builder
	b.WriteString("Answer the following question based ONLY on the provided context.\n\nContext:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "\n[%d] %s (URL: %s)", i+1, sourceLabel(p.Kind), p.URL)
		if p.Title != "" {
			fmt.Fprintf(&b, "\nTitle: %s", p.Title)
		}
		fmt.Fprintf(&b, "\n%s\n", p.Text)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n\nReturn the answer, then a \"Sources:\" section citing the URLs above.", question)
	return b.String()
}

func sourceLabel(kind domain.SourceKind) string {
	switch kind {
	case domain.SourceForumPost:
		return "Discourse post"
	case domain.SourceDocumentPage:
		return "Course material"
	default:
		return "Source"
	}
}
