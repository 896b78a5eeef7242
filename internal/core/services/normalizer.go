package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// Ensure QueryNormalizer can receive custom prompts.
var _ driven.PromptStoreAware = (*QueryNormalizer)(nil)

// imageContextSeparator joins the question and the image description.
const imageContextSeparator = "\n\nImage context: "

// defaultImagePrompt is used when no prompt store is configured.
const defaultImagePrompt = `A student attached this image to their question: "%s"

Describe what the image shows in detail, focusing on anything relevant to the question. Reply with the description only.`

// QueryNormalizer reduces a text and image query to a single text query.
// Images are captioned by a vision model; the caption is embedded as text.
type QueryNormalizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewQueryNormalizer creates a normalizer. llm may be nil when images are never sent.
func NewQueryNormalizer(llm driven.LLMService) *QueryNormalizer {
	return &QueryNormalizer{llm: llm}
}

// SetPromptStore sets the store the vision prompt is loaded from.
func (n *QueryNormalizer) SetPromptStore(store driven.PromptStore) {
	n.prompts = store
}

// Normalize returns the effective text for query. A question without an
// image is returned unchanged.
//
// Errors:
//   - domain.ErrInvalidInput when there is neither a question nor an image
//   - domain.ErrInvalidImage when the image is not base64 or not an image;
//     no model call is made in that case
//   - domain.ErrGenerationUnavailable when the vision call fails
func (n *QueryNormalizer) Normalize(ctx context.Context, query domain.Query) (string, error) {
	question := strings.TrimSpace(query.Question)
	if !query.HasImage() {
		if question == "" {
			return "", fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
		}
		return query.Question, nil
	}

	image, err := DecodeImage(query.Image)
	if err != nil {
		return "", err
	}
	if n.llm == nil {
		return "", fmt.Errorf("%w: no vision model configured", domain.ErrGenerationUnavailable)
	}

	log := logger.From(ctx)
	log.Debug("Describing %s image (%d bytes)", image.MIMEType, len(image.Data))

	description, err := n.llm.DescribeImage(ctx, image, n.imagePrompt(question))
	if err != nil {
		return "", fmt.Errorf("%w: describe image: %w", domain.ErrGenerationUnavailable, err)
	}
	description = strings.TrimSpace(description)

	switch {
	case description == "" && question == "":
		return "", fmt.Errorf("%w: vision model returned no description", domain.ErrGenerationUnavailable)
	case description == "":
		log.Warn("Vision model returned no description, using question only")
		return question, nil
	case question == "":
		return description, nil
	default:
		return question + imageContextSeparator + description, nil
	}
}

// imagePrompt renders the vision prompt for question.
func (n *QueryNormalizer) imagePrompt(question string) string {
	template := defaultImagePrompt
	if n.prompts != nil {
		if p, err := n.prompts.Load(driven.PromptImageDescribe); err == nil && p != "" {
			template = p
		}
	}
	if strings.Count(template, "%s") != 1 {
		return template + "\n\nQuestion: " + question
	}
	return fmt.Sprintf(template, question)
}

// DecodeImage decodes a base64 payload, optionally wrapped in a data URL,
// and checks that the bytes are an image.
func DecodeImage(encoded string) (driven.ImageInput, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return driven.ImageInput{}, fmt.Errorf("%w: malformed data URL", domain.ErrInvalidImage)
		}
		payload = payload[comma+1:]
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)

	data, err := decodeBase64(payload)
	if err != nil {
		return driven.ImageInput{}, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return driven.ImageInput{}, fmt.Errorf("%w: image is empty", domain.ErrInvalidImage)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return driven.ImageInput{}, fmt.Errorf("%w: content is %s, not an image", domain.ErrInvalidImage, mime.String())
	}

	return driven.ImageInput{Data: data, MIMEType: mime.String()}, nil
}

// decodeBase64 accepts standard and URL alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("decode base64: %w", firstErr)
}
