package meal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Field caps for a generated recipe.
const (
	maxRecipeTags        = 30
	maxRecipeIngredients = 40
	maxItemChars         = 80
	maxQuantityChars     = 40
	maxRecipeSteps       = 20
	maxRecipeNotes       = 10
	maxNoteChars         = 200
)

// RecipeRequest asks for a structured recipe for a known meal suggestion.
type RecipeRequest struct {
	MealName    string   `json:"mealName"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
	Calories    int      `json:"calories,omitempty"`
	TimeMinutes int      `json:"timeMinutes,omitempty"`
	Servings    int      `json:"servings,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`
}

// RecipeService generates structured recipes, caching by meal identity.
type RecipeService struct {
	config *config.Config
	client ModelClient
	store  cache.Store
}

// NewRecipeService creates a recipe service. store may be nil (no caching).
func NewRecipeService(cfg *config.Config, client ModelClient, store cache.Store) *RecipeService {
	return &RecipeService{
		config: cfg,
		client: client,
		store:  store,
	}
}

// recipeCacheKey is lowercase(mealName + sorted tags) so tag order does
// not split cache entries.
func recipeCacheKey(mealName string, tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return strings.ToLower("recipe:" + mealName + "__" + strings.Join(sorted, ","))
}

// GenerateRecipe returns a structured recipe for the given meal. Cache
// hits short-circuit the model call unless Refresh is set. Model and parse
// failures degrade to a minimal recipe built from the tags; only missing
// mealName or tags is an error.
func (s *RecipeService) GenerateRecipe(ctx context.Context, req *RecipeRequest) (*RecipeResponse, error) {
	mealName := strings.TrimSpace(req.MealName)
	if mealName == "" || len(req.Tags) == 0 {
		return nil, common.NewValidationError("mealName and tags required")
	}
	tags := req.Tags
	if len(tags) > maxRecipeTags {
		tags = tags[:maxRecipeTags]
	}

	key := recipeCacheKey(mealName, tags)
	if !req.Refresh && s.store != nil {
		if val, ok, err := s.store.Get(ctx, key); err == nil && ok {
			var cached RecipeResponse
			if common.ParseJSON(val, &cached) == nil {
				cached.Cached = true
				common.LogInfo("recipe cache hit", zap.String("meal", mealName))
				return &cached, nil
			}
		}
	}

	model := s.config.Gemini.TextModel
	prompt := buildRecipePrompt(mealName, tags, req)

	rawText, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, gemini.ErrNoAPIKey) {
			return &RecipeResponse{
				MealName:    mealName,
				Model:       markerNoKey,
				Error:       "missing GEMINI_API_KEY",
				Ingredients: []RecipeIngredient{},
				Steps:       []string{},
			}, nil
		}
		common.LogError("recipe generation failed",
			zap.Error(err),
			zap.String("meal", mealName),
		)
		return &RecipeResponse{
			MealName:    mealName,
			Model:       model + suffixError,
			Error:       err.Error(),
			Ingredients: []RecipeIngredient{},
			Steps:       []string{},
		}, nil
	}

	var parsed struct {
		Ingredients []map[string]interface{} `json:"ingredients"`
		Steps       []interface{}            `json:"steps"`
		Servings    interface{}              `json:"servings"`
		Calories    interface{}              `json:"calories"`
		TimeMinutes interface{}              `json:"timeMinutes"`
		Notes       []interface{}            `json:"notes"`
	}
	if !common.ExtractJSONObject(rawText, &parsed) || parsed.Ingredients == nil || parsed.Steps == nil {
		fallback := s.parseFallbackRecipe(mealName, tags, req, model, rawText)
		s.put(ctx, key, fallback)
		return fallback, nil
	}

	response := &RecipeResponse{
		MealName:    mealName,
		Model:       model,
		Ingredients: make([]RecipeIngredient, 0, len(parsed.Ingredients)),
		Steps:       make([]string, 0, len(parsed.Steps)),
		RawText:     rawText,
	}

	for _, ing := range parsed.Ingredients {
		item := common.Truncate(asString(ing["item"]), maxItemChars)
		if item == "" {
			continue
		}
		response.Ingredients = append(response.Ingredients, RecipeIngredient{
			Item:     item,
			Quantity: common.Truncate(asString(ing["quantity"]), maxQuantityChars),
		})
		if len(response.Ingredients) >= maxRecipeIngredients {
			break
		}
	}

	for _, step := range parsed.Steps {
		text := strings.TrimSpace(asString(step))
		if text == "" {
			continue
		}
		response.Steps = append(response.Steps, text)
		if len(response.Steps) >= maxRecipeSteps {
			break
		}
	}

	for _, note := range parsed.Notes {
		text := common.Truncate(asString(note), maxNoteChars)
		if text == "" {
			continue
		}
		response.Notes = append(response.Notes, text)
		if len(response.Notes) >= maxRecipeNotes {
			break
		}
	}

	// Echo the request context when the model did not refine it.
	if response.Servings = asIntInRange(parsed.Servings, 1, 64); response.Servings == 0 {
		response.Servings = req.Servings
	}
	if response.Calories = asBoundedInt(parsed.Calories, 0, 100000); response.Calories == 0 {
		response.Calories = req.Calories
	}
	if response.TimeMinutes = asBoundedInt(parsed.TimeMinutes, 0, 100000); response.TimeMinutes == 0 {
		response.TimeMinutes = req.TimeMinutes
	}

	s.put(ctx, key, response)
	common.LogInfo("recipe generated",
		zap.String("meal", mealName),
		zap.Int("ingredients", len(response.Ingredients)),
		zap.Int("steps", len(response.Steps)),
	)
	return response, nil
}

// parseFallbackRecipe builds the minimal recipe served when model output
// cannot be parsed: tags become the ingredient list verbatim.
func (s *RecipeService) parseFallbackRecipe(mealName string, tags []string, req *RecipeRequest, model, rawText string) *RecipeResponse {
	ingredients := make([]RecipeIngredient, 0, len(tags))
	for _, t := range tags {
		ingredients = append(ingredients, RecipeIngredient{Item: t})
	}
	servings := req.Servings
	if servings == 0 {
		servings = 2
	}
	common.LogWarn("recipe output unparsable, using fallback",
		zap.String("meal", mealName),
		zap.Int("raw_length", len(rawText)),
	)
	return &RecipeResponse{
		MealName:    mealName,
		Model:       model + suffixParseFallback,
		Ingredients: ingredients,
		Steps:       []string{"Combine listed ingredients appropriately and cook until done."},
		Servings:    servings,
		Calories:    req.Calories,
		TimeMinutes: req.TimeMinutes,
		Notes:       []string{"Model parse fallback"},
		RawText:     rawText,
	}
}

func (s *RecipeService) put(ctx context.Context, key string, resp *RecipeResponse) {
	if s.store == nil {
		return
	}
	val, err := common.ToJSON(resp)
	if err != nil {
		return
	}
	if err := s.store.Put(ctx, key, val); err != nil {
		common.LogWarn("failed to cache recipe", zap.Error(err))
	}
}

func buildRecipePrompt(mealName string, tags []string, req *RecipeRequest) string {
	const assumedBasics = "water, salt, pepper, cooking oil"
	return fmt.Sprintf(`You are a cooking assistant. Create a concise, clear recipe that ONLY uses the provided meal ingredient tags plus common pantry basics.

Meal Name: %s
User Ingredient Tags: %s
Assumed common basics (do not list unless essential to a step): %s.
Provided context (may include nutrition/time/servings): calories=%s timeMinutes=%s servings=%s

Requirements:
1. Return ONLY valid JSON matching this schema:
{
  "ingredients": [ { "item": string, "quantity": string } ],
  "steps": [ string ],
  "servings": number,
  "calories": number,
  "timeMinutes": number,
  "notes": [ string ]
}
2. Ingredients list must be minimal & derived from tags (you may expand tag to a common form, e.g., "chicken" -> "boneless chicken breast"). Provide approximate, user-friendly quantities.
3. Steps: 4-12 concise imperative sentences. Combine trivial actions.
4. If calories / servings known, keep them. Otherwise infer plausible values.
5. Do not add extraneous keys or commentary; ONLY JSON.
6. Avoid brand names; stay generic.
7. If an ingredient is optional give note instead of listing multiple variants.
8. If a tag represents a sauce or composite (e.g., 'soy sauce'), include directly with quantity.
`,
		mealName,
		strings.Join(tags, ", "),
		assumedBasics,
		optionalInt(req.Calories),
		optionalInt(req.TimeMinutes),
		optionalInt(req.Servings))
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}
