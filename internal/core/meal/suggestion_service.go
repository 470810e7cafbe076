package meal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Meal count bounds for one suggestion request.
const (
	defaultMaxMeals = 6
	maxMaxMeals     = 12
)

// SuggestionService generates meal suggestions from an ingredient list.
type SuggestionService struct {
	config *config.Config
	client ModelClient
}

// NewSuggestionService creates a suggestion service.
func NewSuggestionService(cfg *config.Config, client ModelClient) *SuggestionService {
	return &SuggestionService{
		config: cfg,
		client: client,
	}
}

// rawMeal is the loose shape parsed out of model output. Numeric fields
// stay untyped so one malformed field does not sink the whole payload.
type rawMeal struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Calories    interface{} `json:"calories"`
	TimeMinutes interface{} `json:"timeMinutes"`
	Time        interface{} `json:"time"`
	Minutes     interface{} `json:"minutes"`
	Servings    interface{} `json:"servings"`
	Yields      interface{} `json:"yields"`
}

// GenerateMeals proposes up to maxMeals meals that use only the given
// ingredients plus pantry basics. Model and parse failures degrade to the
// canned catalog with a provenance marker; only an empty ingredient list
// is an error.
func (s *SuggestionService) GenerateMeals(ctx context.Context, ingredients []string, maxMeals int) (*GenerateMealsResponse, error) {
	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	if len(cleaned) == 0 {
		return nil, common.NewValidationError("ingredients array required")
	}
	if maxMeals <= 0 || maxMeals > maxMaxMeals {
		maxMeals = defaultMaxMeals
	}

	model := s.config.Gemini.TextModel
	prompt := buildMealsPrompt(cleaned, maxMeals)

	rawText, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, gemini.ErrNoAPIKey) {
			return &GenerateMealsResponse{Meals: fallbackMeals(), Model: markerNoKey}, nil
		}
		common.LogError("meal generation failed",
			zap.Error(err),
			zap.String("model", model),
		)
		return &GenerateMealsResponse{Meals: fallbackMeals(), Model: model + suffixErrorFallback}, nil
	}

	var parsed struct {
		Meals []rawMeal `json:"meals"`
	}
	if !common.ExtractJSONObject(rawText, &parsed) || parsed.Meals == nil {
		common.LogWarn("meal generation output unparsable",
			zap.String("model", model),
			zap.Int("raw_length", len(rawText)),
		)
		return &GenerateMealsResponse{Meals: fallbackMeals(), Model: model + suffixParseFallback, RawText: rawText}, nil
	}

	meals := normalizeMeals(parsed.Meals, cleaned)
	if len(meals) == 0 {
		return &GenerateMealsResponse{Meals: fallbackMeals(), Model: model + suffixEmptyFallback, RawText: rawText}, nil
	}

	common.LogInfo("meals generated",
		zap.String("model", model),
		zap.Int("count", len(meals)),
	)
	return &GenerateMealsResponse{Meals: meals, Model: model, RawText: rawText}, nil
}

// normalizeMeals validates and bounds model output: numeric fields outside
// their sane ranges are omitted, tags are lowercased and restricted to
// tokens appearing in the request ingredients, and meals keeping fewer
// than 2 tags are dropped.
func normalizeMeals(raw []rawMeal, ingredients []string) []Suggestion {
	lowerIngredients := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lowerIngredients[i] = strings.ToLower(ing)
	}

	meals := make([]Suggestion, 0, len(raw))
	for _, m := range raw {
		if strings.TrimSpace(m.Name) == "" || m.Tags == nil {
			continue
		}

		timeVal := m.TimeMinutes
		if timeVal == nil {
			timeVal = m.Time
		}
		if timeVal == nil {
			timeVal = m.Minutes
		}
		servingsVal := m.Servings
		if servingsVal == nil {
			servingsVal = m.Yields
		}

		tags := make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			for _, ing := range lowerIngredients {
				if strings.Contains(ing, t) {
					tags = append(tags, t)
					break
				}
			}
		}
		if len(tags) < 2 {
			continue
		}

		meals = append(meals, Suggestion{
			Name:        strings.TrimSpace(m.Name),
			Description: common.Truncate(m.Description, 400),
			Tags:        tags,
			Calories:    asBoundedInt(m.Calories, 50, 4000),
			TimeMinutes: asBoundedInt(timeVal, 1, 600),
			Servings:    asIntInRange(servingsVal, 1, 16),
			Source:      "gemini",
		})
	}
	return meals
}

func buildMealsPrompt(ingredients []string, maxMeals int) string {
	return fmt.Sprintf(`You are a meal suggestion engine.
Given ONLY this list of available ingredients:
%s

Generate up to %d realistic meal ideas that could plausibly be prepared using ONLY these ingredients (and basic pantry staples: salt, pepper, oil, water).

For each meal provide:
- name: short, appealing
- description: 12-25 words, practical
- tags: array of 2-6 ingredient tokens drawn exactly from the provided list (lowercase)
- calories: integer estimated total calories for the full recipe (not per serving). Choose a plausible value (e.g. 300-1200).
- timeMinutes: integer total time (prep + cook) in minutes (10-120 typical). Use realistic value.
- servings: integer number of servings (1-8 typical, default 2-4 if ambiguous).

Return JSON ONLY with shape:
{ "meals": [ { "name": string, "description": string, "tags": string[], "calories": number, "timeMinutes": number, "servings": number } ] }
No additional keys. Do not include any explanatory text outside JSON. Respond with VALID JSON only.`,
		strings.Join(ingredients, ", "), maxMeals)
}
