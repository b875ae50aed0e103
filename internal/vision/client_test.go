package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"nutrilog/internal/models"
)

func TestParseAnalysisContent(t *testing.T) {
	content := `{"food_name": "Grilled chicken", "macros": {"calories": 450, "protein_g": 40, "fats_g": 18, "carbs_g": 25}}`

	analysis := ParseAnalysisContent(content)
	assert.True(t, analysis.Success)
	assert.Equal(t, "Grilled chicken", analysis.FoodName)
	assert.Equal(t, models.Macros{Calories: 450, ProteinG: 40, FatsG: 18, CarbsG: 25}, analysis.Macros)
}

func TestParseAnalysisContentStripsCodeFences(t *testing.T) {
	content := "```json\n{\"food_name\": \"Ramen\", \"macros\": {\"calories\": 650, \"protein_g\": 25, \"fats_g\": 20, \"carbs_g\": 90}}\n```"

	analysis := ParseAnalysisContent(content)
	assert.True(t, analysis.Success)
	assert.Equal(t, "Ramen", analysis.FoodName)
	assert.Equal(t, 650, analysis.Macros.Calories)
}

func TestParseAnalysisContentCoercesNumericTypes(t *testing.T) {
	content := `{"food_name": "Pizza", "macros": {"calories": 650.4, "protein_g": "28", "fats_g": 22.6, "carbs_g": "80.2"}}`

	analysis := ParseAnalysisContent(content)
	assert.True(t, analysis.Success)
	assert.Equal(t, models.Macros{Calories: 650, ProteinG: 28, FatsG: 23, CarbsG: 80}, analysis.Macros)
}

func TestParseAnalysisContentRejectsInvalidJSON(t *testing.T) {
	analysis := ParseAnalysisContent("I think this is a sandwich")
	assert.False(t, analysis.Success)
	assert.NotEmpty(t, analysis.ErrorMessage)
}

func TestParseAnalysisContentRejectsMissingMacros(t *testing.T) {
	analysis := ParseAnalysisContent(`{"food_name": "Mystery", "macros": {"calories": 300}}`)
	assert.False(t, analysis.Success)
	assert.NotEmpty(t, analysis.ErrorMessage)
}

func testClient(serverURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		model:      defaultModel,
		baseURL:    serverURL,
		httpClient: &http.Client{},
	}
}

func completionWith(content string) chatCompletionResponse {
	var resp chatCompletionResponse
	resp.Choices = make([]struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	resp.Choices[0].Message.Content = content
	return resp
}

func TestAnalyzeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		content := `{"food_name": "Avocado toast", "macros": {"calories": 320, "protein_g": 10, "fats_g": 18, "carbs_g": 30}}`
		json.NewEncoder(w).Encode(completionWith(content))
	}))
	defer server.Close()

	analysis := testClient(server.URL).Analyze(context.Background(), []byte("fake-image"), "")
	assert.True(t, analysis.Success)
	assert.Equal(t, "Avocado toast", analysis.FoodName)
	assert.Equal(t, 320, analysis.Macros.Calories)
}

func TestAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Invalid API key"},
		})
	}))
	defer server.Close()

	analysis := testClient(server.URL).Analyze(context.Background(), []byte("fake-image"), "")
	assert.False(t, analysis.Success)
	assert.Equal(t, "Photo analysis failed: Invalid API key", analysis.ErrorMessage)
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse{})
	}))
	defer server.Close()

	analysis := testClient(server.URL).Analyze(context.Background(), []byte("fake-image"), "")
	assert.False(t, analysis.Success)
	assert.NotEmpty(t, analysis.ErrorMessage)
}

func TestAnalyzeNoImage(t *testing.T) {
	analysis := testClient("http://unused").Analyze(context.Background(), nil, "")
	assert.False(t, analysis.Success)
	assert.Equal(t, "No image provided", analysis.ErrorMessage)
}

func TestUnconfiguredAnalyzer(t *testing.T) {
	analysis := UnconfiguredAnalyzer{}.Analyze(context.Background(), []byte("fake-image"), "")
	assert.False(t, analysis.Success)
	assert.Equal(t, "Photo analysis is not configured.", analysis.ErrorMessage)
}
