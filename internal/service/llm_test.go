package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysis = `{
	"health_rating": "C",
	"summary": "Moderate sodium.",
	"pros": ["22 g protein"],
	"cons": [{"nutrient": "sodium", "level": "High", "source": "WHO", "reasoning": "650 mg is over 30% of 2000 mg", "value": 650}],
	"nutrient_levels": {"sugar": {"level": "Low", "source": "FSSAI", "reasoning": "2 g", "value": "2 g"}},
	"references": ["World Health Organization (WHO) - Sodium Intake Guidelines"]
}`

// chatServer replies to every request with the given message content.
func chatServer(t *testing.T, content string, inspect func(r *http.Request, body Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if inspect != nil {
			inspect(r, body)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestLLM(url string) *LLMService {
	return NewLLMService(LLMConfig{
		APIKey:  "gsk-test",
		APIURL:  url,
		Model:   "llama-3.1-8b-instant",
		Timeout: 5 * time.Second,
	})
}

func TestLLMServiceAnalyzeLabel(t *testing.T) {
	goal := "Lose Weight"
	conditions := "Hypertension"
	profile := &models.Profile{PrimaryGoal: &goal, HealthConditions: &conditions}

	srv := chatServer(t, validAnalysis, func(r *http.Request, body Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "llama-3.1-8b-instant", body.Model)
		assert.Equal(t, 0.3, body.Temperature)
		assert.Equal(t, "json_object", body.ResponseFormat["type"])
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[1].Content, "Goal='Lose Weight'")
		assert.Contains(t, body.Messages[1].Content, "Health Conditions='Hypertension'")
		assert.Contains(t, body.Messages[1].Content, "Sodium 650mg")
	})

	result, err := newTestLLM(srv.URL).AnalyzeLabel(context.Background(), "Sodium 650mg", profile)
	require.NoError(t, err)
	assert.Equal(t, "C", result.HealthRating)
	assert.Equal(t, "650", string(result.Cons[0].Value))
	assert.Equal(t, "Low", result.NutrientLevels["sugar"].Level)
}

func TestLLMServiceWithoutProfile(t *testing.T) {
	srv := chatServer(t, validAnalysis, func(r *http.Request, body Request) {
		assert.Contains(t, body.Messages[1].Content, noProfileNotice)
	})

	_, err := newTestLLM(srv.URL).AnalyzeLabel(context.Background(), "", nil)
	assert.NoError(t, err)
}

func TestLLMServiceMalformedContent(t *testing.T) {
	for name, content := range map[string]string{
		"prose":          "Sure! Here is your analysis.",
		"array":          `["A"]`,
		"bad rating":     `{"health_rating": "Z"}`,
		"trailing":       `{"health_rating": "A"} and more`,
		"wrong con type": `{"health_rating": "A", "cons": [42]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := chatServer(t, content, nil)
			_, err := newTestLLM(srv.URL).AnalyzeLabel(context.Background(), "text", nil)
			assert.ErrorIs(t, err, ErrMalformedAIResponse)
		})
	}
}

func TestLLMServiceUpstreamFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newTestLLM(srv.URL).AnalyzeLabel(context.Background(), "text", nil)
		assert.ErrorIs(t, err, ErrExternalService)
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		_, err := newTestLLM(srv.URL).AnalyzeLabel(context.Background(), "text", nil)
		assert.ErrorIs(t, err, ErrExternalService)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestLLM(url).AnalyzeLabel(context.Background(), "text", nil)
		assert.ErrorIs(t, err, ErrExternalService)
	})
}

func TestDescribeProfile(t *testing.T) {
	age := 34
	weight := 72.5
	allergies := "Peanuts"
	desc := describeProfile(&models.Profile{Age: &age, Weight: &weight, Allergies: &allergies})

	assert.Contains(t, desc, "Goal='not provided'")
	assert.Contains(t, desc, "Allergies='Peanuts'")
	assert.Contains(t, desc, "Age=34")
	assert.Contains(t, desc, "Weight=72.5kg")
	assert.Equal(t, noProfileNotice, describeProfile(nil))
}
