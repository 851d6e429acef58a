package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/types"
	"github.com/rs/zerolog/log"
)

// AnalysisProvider produces a nutrition assessment from label text.
type AnalysisProvider interface {
	AnalyzeLabel(ctx context.Context, text string, profile *models.Profile) (*types.AnalysisResult, error)
}

// LLMConfig configures the chat-completions client.
type LLMConfig struct {
	APIKey      string
	APIURL      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// LLMService talks to an OpenAI-compatible chat-completions endpoint.
type LLMService struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	client      *http.Client
}

func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.APIKey == "" {
		log.Warn().Str("component", "llm").Msg("no API key configured, label analysis requests will be rejected upstream")
	}
	return &LLMService{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.APIURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const analysisSystemPrompt = `You are an expert nutrition analyst. You receive noisy text read from a food nutrition label by OCR, together with a user's health profile, and turn it into a structured, personalised, data-driven assessment.

Respond with a single valid JSON object and nothing else: no introduction, no explanation, no markdown fences.

Rules:
- Judge nutrient levels ("high sodium", "moderate sugar") against World Health Organization (WHO) and Food Safety and Standards Authority of India (FSSAI) guidelines, and name the source in the reasoning and the references.
- Keep a neutral, factual tone. Prefer "This product is high in..." or "This may not be suitable for..." over judgemental words.
- You are not a medical professional. Give no medical advice and use cautious language.
- Link nutrient facts to the user's goals and conditions in the summary (for example high sodium and hypertension).
- Use only numbers present in the label text or in the official guidelines. Do not invent values.

Required JSON structure:
{
  "health_rating": "A" | "B" | "C" | "D" | "E" | "F",
  "summary": "Three parts. Verdict: one personalised sentence naming the user's conditions and goals. Explanation: every relevant nutrient with its value, share of the daily limit and the WHO or FSSAI citation. Positive notes: the beneficial nutrients and their effects.",
  "pros": ["positive nutritional aspects, each referencing a value"],
  "cons": [
    {"nutrient": "sodium", "level": "High", "source": "WHO", "reasoning": "650 mg per serving is over 30% of the 2000 mg daily limit recommended by WHO.", "value": "650 mg"}
  ],
  "nutrient_levels": {
    "sodium": {"level": "High", "source": "WHO", "reasoning": "650 mg per serving is over 30% of the 2000 mg daily limit recommended by WHO.", "value": "650 mg"},
    "sugar": {"level": "Low", "source": "FSSAI", "reasoning": "2 g per serving is below the 25 g daily limit recommended by FSSAI.", "value": "2 g"}
  },
  "references": [
    "World Health Organization (WHO) - Sodium, Protein and Saturated Fat Intake Guidelines",
    "Food Safety and Standards Authority of India (FSSAI) - Sugar, Fiber and Fat Intake Guidelines"
  ]
}

Additional instructions:
- Do not include a product_name field.
- Every reasoning field needs a numeric justification such as the percentage of the daily limit.
- Group references by organisation: "Organisation - Nutrient1, Nutrient2 Intake Guidelines".`

const noProfileNotice = "The user has not provided a health profile. Provide a general analysis."

// describeProfile renders the profile line placed in the user message.
func describeProfile(p *models.Profile) string {
	if p == nil {
		return noProfileNotice
	}

	str := func(s *string) string {
		if s == nil || strings.TrimSpace(*s) == "" {
			return "not provided"
		}
		return *s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "USER PROFILE: Goal='%s', Health Conditions='%s', Allergies='%s'.",
		str(p.PrimaryGoal), str(p.HealthConditions), str(p.Allergies))

	var bio []string
	if p.Age != nil {
		bio = append(bio, fmt.Sprintf("Age=%d", *p.Age))
	}
	if p.Gender != nil && *p.Gender != "" {
		bio = append(bio, fmt.Sprintf("Gender='%s'", *p.Gender))
	}
	if p.Weight != nil {
		bio = append(bio, "Weight="+strconv.FormatFloat(*p.Weight, 'f', -1, 64)+"kg")
	}
	if p.Height != nil {
		bio = append(bio, "Height="+strconv.FormatFloat(*p.Height, 'f', -1, 64)+"cm")
	}
	if p.ActivityLevel != nil && *p.ActivityLevel != "" {
		bio = append(bio, fmt.Sprintf("Activity Level='%s'", *p.ActivityLevel))
	}
	if len(bio) > 0 {
		b.WriteString(" " + strings.Join(bio, ", ") + ".")
	}
	return b.String()
}

// BuildMessages assembles the chat messages for one label.
func BuildMessages(text string, profile *models.Profile) []Message {
	return []Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: describeProfile(profile) + "\n\nHere is the nutrition label text:\n" + text},
	}
}

// AnalyzeLabel sends the label text and profile to the model and parses the
// JSON assessment it returns.
func (s *LLMService) AnalyzeLabel(ctx context.Context, text string, profile *models.Profile) (*types.AnalysisResult, error) {
	reqBody := Request{
		Model:    s.model,
		Messages: BuildMessages(text, profile),
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: s.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrExternalService, err)
	}

	log.Debug().Str("component", "llm").Str("model", s.model).Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).Msg("chat completion finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Str("component", "llm").Int("status", resp.StatusCode).Str("body", truncate(string(body), 512)).Msg("API request failed")
		return nil, fmt.Errorf("%w: API request failed with status %d", ErrExternalService, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrExternalService, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrExternalService)
	}

	return ParseAnalysis(chat.Choices[0].Message.Content)
}

// ParseAnalysis decodes the model's message content into an AnalysisResult.
func ParseAnalysis(content string) (*types.AnalysisResult, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(content)))

	var result types.AnalysisResult
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAIResponse, err)
	}
	// Only one JSON value is allowed.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedAIResponse)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAIResponse, err)
	}
	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
