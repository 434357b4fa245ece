package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/models"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

var ErrAnalysisUnavailable = errors.New("mood analysis is unavailable")

const (
	NoDataAnalysis   = "Hey friend! 👋 I don't have any mood data from you yet. Start logging your moods and I'll give you personalized insights! 🌟"
	FallbackAnalysis = "Oops! 😅 I'm having a moment. Try again in a bit, friend! 💫"

	analysisDays = 7
)

// TextGenerator turns a prompt into a short piece of text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator generates text with a Gemini model.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: strings.TrimSpace(model)}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return resp.Text(), nil
}

// AnalysisService writes a short, friendly observation about the last week.
type AnalysisService struct {
	moods     *MoodService
	generator TextGenerator
	timeout   time.Duration
}

// NewAnalysisService creates the service. generator may be nil, in which case
// every analysis with data fails with ErrAnalysisUnavailable.
func NewAnalysisService(moods *MoodService, generator TextGenerator, timeout time.Duration) *AnalysisService {
	return &AnalysisService{moods: moods, generator: generator, timeout: timeout}
}

// Analyze returns the analysis text. On failure the returned text is the
// fallback message and err is ErrAnalysisUnavailable.
func (s *AnalysisService) Analyze(ctx context.Context, userID uuid.UUID) (string, error) {
	entries, err := s.moods.Entries(ctx, userID, analysisDays)
	if err != nil {
		return FallbackAnalysis, err
	}
	if len(entries) == 0 {
		return NoDataAnalysis, nil
	}
	if s.generator == nil {
		return FallbackAnalysis, ErrAnalysisUnavailable
	}

	now := s.moods.clock()
	prompt := buildAnalysisPrompt(entries, now)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, prompt)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		slog.Error("mood analysis failed", "user_id", userID.String(), "action", "ai_analyze", "error", err)
		return FallbackAnalysis, ErrAnalysisUnavailable
	}
	return text, nil
}

func buildAnalysisPrompt(entries []models.MoodEntry, now time.Time) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		date := e.Timestamp.In(now.Location()).Format("Mon, Jan 2")
		parts = append(parts, fmt.Sprintf("%s: %s (%d/5)", date, e.Mood, e.Value))
	}

	summary := insights.ComputeInsights(models.Records(entries), now, analysisDays)

	var b strings.Builder
	fmt.Fprintf(&b, "Act as a supportive best friend. Analyze this mood history: [%s].\n", strings.Join(parts, ", "))
	fmt.Fprintf(&b, "Average mood: %.1f/5.\n", summary.AverageMood)
	fmt.Fprintf(&b, "Most common: %s.\n", summary.MostCommonMood)
	b.WriteString("Give a 1-sentence observation and 1 short, fun recommendation.\n")
	b.WriteString("Use emojis. Keep it under 50 words.")
	return b.String()
}
