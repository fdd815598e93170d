// Package ai produces optional Gemini-written summaries of the manual
// correlation triage queue. The engine works fully without it; the
// service is only constructed when an API key is configured.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xelth-com/rentrackgo/internal/models"
	"google.golang.org/api/option"
)

// TriageService summarizes low-confidence correlations for operators
type TriageService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewTriageService creates a Gemini-backed triage summarizer
func NewTriageService(ctx context.Context, apiKey, modelName string) (*TriageService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}

	return &TriageService{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the client connection
func (s *TriageService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Summarize asks the model for a short operator briefing over the given
// correlation records.
func (s *TriageService) Summarize(ctx context.Context, records []models.CorrelationRecord) (string, error) {
	if len(records) == 0 {
		return "No correlations pending manual review.", nil
	}

	var b strings.Builder
	b.WriteString("You are assisting a rental equipment operations team. ")
	b.WriteString("Summarize the following candidate matches between the POS catalog and RFID-tracked inventory. ")
	b.WriteString("Group them by likely root cause (key format drift, missing serials, renamed equipment) and suggest which to review first.\n\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "- key=%s pos=%q tracked=%q tags=%d confidence=%.2f action=%s\n",
			rec.NormalizedKey, rec.EquipmentName, rec.TrackedName, rec.TagCount, rec.Confidence, rec.RecommendedAction)
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return out.String(), nil
}
