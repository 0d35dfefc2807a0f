package testimonials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

const moderationPrompt = `You are a content moderator for a wellness clinic's testimonial page.
Classify the following user-submitted testimonial.
Reply with exactly one word: SAFE if it is an acceptable testimonial, UNSAFE if it contains profanity, spam, medical misinformation, personal attacks, or unrelated content.

Testimonial:
%s`

// Moderator classifies testimonial text before it is published.
type Moderator interface {
	Check(ctx context.Context, text string) (safe bool, err error)
}

// GeminiModerator moderates testimonials with Google's Gemini API.
type GeminiModerator struct {
	client  *genai.Client
	modelID string
	logger  *logging.Logger
}

// NewGeminiModerator creates a Gemini-backed moderator. Returns nil
// without an API key so callers can treat moderation as optional.
func NewGeminiModerator(ctx context.Context, apiKey, modelID string, logger *logging.Logger) (*GeminiModerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = logging.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("testimonials: create gemini client: %w", err)
	}
	return &GeminiModerator{client: client, modelID: modelID, logger: logger}, nil
}

// Check asks the model for a SAFE/UNSAFE verdict. Errors are returned
// to the caller; the handler decides the fail-open policy.
func (m *GeminiModerator) Check(ctx context.Context, text string) (bool, error) {
	model := m.client.GenerativeModel(m.modelID)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(moderationPrompt, text)))
	if err != nil {
		return false, fmt.Errorf("testimonials: moderation request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return false, errors.New("testimonials: moderation returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return parseVerdict(sb.String())
}

// Close releases the underlying client.
func (m *GeminiModerator) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// parseVerdict maps the model's reply to a boolean. Anything that isn't
// a recognizable verdict is an error so the caller can apply its
// fallback policy instead of trusting garbage output.
func parseVerdict(reply string) (bool, error) {
	verdict := strings.ToUpper(strings.TrimSpace(reply))
	verdict = strings.Trim(verdict, ".!\"'")
	switch {
	case strings.HasPrefix(verdict, "SAFE"):
		return true, nil
	case strings.HasPrefix(verdict, "UNSAFE"):
		return false, nil
	default:
		return false, fmt.Errorf("testimonials: unrecognized moderation verdict %q", reply)
	}
}

var _ Moderator = (*GeminiModerator)(nil)
