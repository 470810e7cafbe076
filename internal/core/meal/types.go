// Package meal implements the generation gateway: it turns ingredient
// lists, meal names, and photos into structured culinary data via the
// Gemini API, with deterministic fallbacks when the model is unavailable
// or returns unusable output.
package meal

import (
	"context"
	"strconv"

	"meal-planner/internal/core/ai/gemini"
)

// ModelClient is the slice of the Gemini client the gateway services use.
// Tests substitute a fake.
type ModelClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	GenerateImage(ctx context.Context, prompt string, variant gemini.ImageVariant) (*gemini.ImageResult, error)
}

// Suggestion is one proposed meal.
type Suggestion struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Calories    int      `json:"calories,omitempty"`
	TimeMinutes int      `json:"timeMinutes,omitempty"`
	Servings    int      `json:"servings,omitempty"`
	// Source is "gemini" for model output, "fallback" for canned meals.
	Source string `json:"source,omitempty"`
}

// GenerateMealsResponse is the meal suggestion payload. Model carries the
// provenance marker; on degraded paths it names the fallback reason
// instead of the model.
type GenerateMealsResponse struct {
	Meals   []Suggestion `json:"meals"`
	Model   string       `json:"model,omitempty"`
	RawText string       `json:"rawText,omitempty"`
}

// RecipeIngredient is one (item, quantity) pair of a recipe.
type RecipeIngredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity,omitempty"`
}

// RecipeResponse is the structured recipe payload.
type RecipeResponse struct {
	MealName    string             `json:"mealName"`
	Model       string             `json:"model"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	Steps       []string           `json:"steps"`
	Servings    int                `json:"servings,omitempty"`
	Calories    int                `json:"calories,omitempty"`
	TimeMinutes int                `json:"timeMinutes,omitempty"`
	Notes       []string           `json:"notes,omitempty"`
	Error       string             `json:"error,omitempty"`
	Cached      bool               `json:"cached,omitempty"`
	RawText     string             `json:"rawText,omitempty"`
}

// ImageResponse is the meal photo payload.
type ImageResponse struct {
	MealName     string                 `json:"mealName"`
	Model        string                 `json:"model"`
	ImageDataURL string                 `json:"imageDataUrl,omitempty"`
	ImagesBase64 []string               `json:"imagesBase64,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Cached       bool                   `json:"cached,omitempty"`
	Debug        map[string]interface{} `json:"debug,omitempty"`
}

// VisionResponse is the photo-to-ingredients payload.
type VisionResponse struct {
	Model       string   `json:"model"`
	Ingredients []string `json:"ingredients"`
	RawText     string   `json:"rawText,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// asString coerces a decoded JSON value to a string. Models occasionally
// emit numbers where strings belong; those are formatted rather than
// dropped.
func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// asBoundedInt coerces a decoded JSON value to an int and checks it
// against (min, max) exclusive bounds; returns 0 when out of range or not
// numeric, meaning the field is omitted from the response.
func asBoundedInt(v interface{}, min, max float64) int {
	num, ok := v.(float64)
	if !ok {
		return 0
	}
	if num <= min || num >= max {
		return 0
	}
	return int(num + 0.5)
}

// asIntInRange is like asBoundedInt with inclusive bounds.
func asIntInRange(v interface{}, min, max float64) int {
	num, ok := v.(float64)
	if !ok {
		return 0
	}
	if num < min || num > max {
		return 0
	}
	return int(num + 0.5)
}
