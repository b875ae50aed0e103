package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"nutrilog/internal/models"
)

// Analysis is the outcome of a photo analysis. On failure ErrorMessage
// carries a single human-readable reason; nothing else is set.
type Analysis struct {
	Success      bool          `json:"success"`
	FoodName     string        `json:"food_name,omitempty"`
	Macros       models.Macros `json:"macros"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Analyzer estimates a food name and macros from an image. Implementations
// never return a Go error for analysis failures; they report them through
// the Analysis so callers can surface a message to the user.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, nameHint string) Analysis
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

const defaultModel = "gpt-4o-mini"

// NewClient builds a vision client from the environment. The API key is
// required; model and base URL have working defaults.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	model := os.Getenv("OPENAI_VISION_MODEL")
	if model == "" {
		model = defaultModel
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}, nil
}

type contentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentItem `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze sends the photo to the vision model and parses the strict-JSON
// reply into a food name plus macro estimate. The call blocks the request;
// a single failure is surfaced immediately, no retry.
func (c *Client) Analyze(ctx context.Context, image []byte, nameHint string) Analysis {
	if len(image) == 0 {
		return failure("No image provided")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	encoded := base64.StdEncoding.EncodeToString(image)

	req := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: []contentItem{
					{Type: "text", Text: "You are a nutrition expert who replies with strict JSON only."},
				},
			},
			{
				Role: "user",
				Content: []contentItem{
					{Type: "text", Text: buildPrompt(nameHint)},
					{
						Type: "image_url",
						ImageURL: &struct {
							URL string `json:"url"`
						}{URL: "data:image/jpeg;base64," + encoded},
					},
				},
			},
		},
		Temperature: 0.2,
		MaxTokens:   500,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return failure("Something went wrong while analyzing the photo.")
	}

	request, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return failure("Something went wrong while analyzing the photo.")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		log.Printf("vision request failed: %v", err)
		return failure("The photo analysis service is unavailable. Please try again.")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		var errorResponse struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(response.Body).Decode(&errorResponse); err == nil && errorResponse.Error.Message != "" {
			return failure("Photo analysis failed: " + errorResponse.Error.Message)
		}
		return failure(fmt.Sprintf("Photo analysis failed with status %d.", response.StatusCode))
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return failure("We couldn't interpret the nutrition info from the AI response.")
	}
	if len(result.Choices) == 0 {
		return failure("We couldn't interpret the nutrition info from the AI response.")
	}

	return ParseAnalysisContent(result.Choices[0].Message.Content)
}

func buildPrompt(nameHint string) string {
	hint := "No user suggestion provided."
	if strings.TrimSpace(nameHint) != "" {
		hint = "The user suggests it might be: " + nameHint + "."
	}
	return `You are a nutrition expert. Analyze the provided food photo and respond in strict JSON.
Required keys:
{
  "food_name": "descriptive name",
  "macros": {
    "calories": integer,
    "protein_g": integer,
    "fats_g": integer,
    "carbs_g": integer
  }
}
` + hint + `
Do not include any other text.`
}

var (
	openFenceRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("```\\s*$")
)

// ParseAnalysisContent turns the model's raw reply into an Analysis,
// tolerating code fences and numeric values sent as floats or strings.
func ParseAnalysisContent(content string) Analysis {
	cleaned := strings.TrimSpace(content)
	cleaned = openFenceRe.ReplaceAllString(cleaned, "")
	cleaned = closeFenceRe.ReplaceAllString(cleaned, "")

	var payload struct {
		FoodName string `json:"food_name"`
		Macros   struct {
			Calories interface{} `json:"calories"`
			ProteinG interface{} `json:"protein_g"`
			FatsG    interface{} `json:"fats_g"`
			CarbsG   interface{} `json:"carbs_g"`
		} `json:"macros"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		log.Printf("failed to parse vision response: %v -- %s", err, content)
		return failure("We couldn't interpret the nutrition info from the AI response.")
	}

	calories, ok1 := coerceInt(payload.Macros.Calories)
	protein, ok2 := coerceInt(payload.Macros.ProteinG)
	fats, ok3 := coerceInt(payload.Macros.FatsG)
	carbs, ok4 := coerceInt(payload.Macros.CarbsG)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return failure("We couldn't interpret the nutrition info from the AI response.")
	}

	return Analysis{
		Success:  true,
		FoodName: payload.FoodName,
		Macros: models.Macros{
			Calories: calories,
			ProteinG: protein,
			FatsG:    fats,
			CarbsG:   carbs,
		},
	}
}

func coerceInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(math.Round(v)), true
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(math.Round(parsed)), true
		}
		return 0, false
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			return int(math.Round(parsed)), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func failure(message string) Analysis {
	return Analysis{Success: false, ErrorMessage: message}
}

// UnconfiguredAnalyzer stands in when no API key is configured: every
// analysis fails with a clear message instead of crashing the request.
type UnconfiguredAnalyzer struct{}

func (UnconfiguredAnalyzer) Analyze(ctx context.Context, image []byte, nameHint string) Analysis {
	return failure("Photo analysis is not configured.")
}
