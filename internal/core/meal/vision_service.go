package meal

import (
	"context"
	"errors"

	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Ingredient extraction caps.
const (
	maxVisionIngredients   = 40
	maxVisionIngredientLen = 40
)

const visionPrompt = `You are a precise kitchen assistant. The user provides a photo likely of the contents of a refrigerator or a group of food items.
Identify distinct edible ingredient items visible (raw or packaged) that a home cook might list in their ingredient inventory.
Return ONLY a JSON array of unique ingredient names in lowercase. Keep names short (e.g. "tomato", "spinach", "eggs", "cheddar cheese", "orange juice").
Do not include brands, utensils, containers, or vague terms like 'food', 'produce'.
JSON ONLY.`

// VisionService extracts ingredient names from food photos.
type VisionService struct {
	config *config.Config
	client ModelClient
}

// NewVisionService creates a vision service.
func NewVisionService(cfg *config.Config, client ModelClient) *VisionService {
	return &VisionService{
		config: cfg,
		client: client,
	}
}

// ExtractIngredients identifies edible items in the uploaded photo. The
// result list is trimmed, lowercased, de-duplicated and capped. Model
// failures yield an empty list with an error marker, not a hard error;
// only a missing image is rejected.
func (s *VisionService) ExtractIngredients(ctx context.Context, image []byte, mimeType string) (*VisionResponse, error) {
	if len(image) == 0 {
		return nil, common.NewValidationError("image file required")
	}

	model := s.config.Gemini.VisionModel

	rawText, err := s.client.GenerateVision(ctx, visionPrompt, image, mimeType)
	if err != nil {
		if errors.Is(err, gemini.ErrNoAPIKey) {
			return &VisionResponse{
				Model:       markerNoKey,
				Ingredients: []string{},
				Error:       "missing api key",
			}, nil
		}
		common.LogError("vision extraction failed", zap.Error(err))
		return &VisionResponse{
			Model:       model,
			Ingredients: []string{},
			Error:       "vision-error",
		}, nil
	}

	items := common.ExtractJSONArray(rawText)
	ingredients := common.NormalizeTokens(items, maxVisionIngredientLen, maxVisionIngredients)
	if ingredients == nil {
		ingredients = []string{}
	}

	common.LogInfo("vision ingredients extracted",
		zap.String("model", model),
		zap.Int("count", len(ingredients)),
	)
	return &VisionResponse{
		Model:       model,
		Ingredients: ingredients,
		RawText:     rawText,
	}, nil
}
