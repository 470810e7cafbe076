package meal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

const defaultImageStyle = "natural realistic food photography, soft daylight, high resolution, 50mm lens, overhead composition"

// imageVariants is the fixed fallback chain: the plain prompt shape first,
// then the structured role shape when no inline image came back.
var imageVariants = []gemini.ImageVariant{
	gemini.ImageVariantPlain,
	gemini.ImageVariantStructured,
}

// ImageRequest asks for a photographic image of a meal.
type ImageRequest struct {
	MealName    string `json:"mealName"`
	Description string `json:"description,omitempty"`
	StyleHint   string `json:"styleHint,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`
}

// ImageService generates meal photos, caching by meal name.
type ImageService struct {
	config *config.Config
	client ModelClient
	store  cache.Store
}

// NewImageService creates an image service. store may be nil (no caching).
func NewImageService(cfg *config.Config, client ModelClient, store cache.Store) *ImageService {
	return &ImageService{
		config: cfg,
		client: client,
		store:  store,
	}
}

// GenerateImage returns a photo of the meal as a base64 data URL. The two
// request variants are tried in order; if neither yields an inline image
// the response carries error and debug metadata instead. All model
// failures are absorbed into the response body.
func (s *ImageService) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	mealName := strings.TrimSpace(req.MealName)
	if mealName == "" {
		return nil, common.NewValidationError("mealName required")
	}

	key := "image:" + strings.ToLower(mealName)
	if !req.Refresh && s.store != nil {
		if val, ok, err := s.store.Get(ctx, key); err == nil && ok {
			var cached ImageResponse
			if common.ParseJSON(val, &cached) == nil {
				cached.Cached = true
				common.LogInfo("image cache hit", zap.String("meal", mealName))
				return &cached, nil
			}
		}
	}

	model := s.config.Gemini.ImageModel
	prompt := buildImagePrompt(mealName, req.Description, req.StyleHint)

	var result *gemini.ImageResult
	debug := map[string]interface{}{}
	for _, variant := range imageVariants {
		attempt, err := s.client.GenerateImage(ctx, prompt, variant)
		if err != nil {
			if errors.Is(err, gemini.ErrNoAPIKey) {
				return &ImageResponse{
					MealName: mealName,
					Model:    markerNoKey,
					Error:    "missing GEMINI_API_KEY",
				}, nil
			}
			common.LogError("image generation failed",
				zap.Error(err),
				zap.String("meal", mealName),
				zap.String("variant", string(variant)),
			)
			return &ImageResponse{
				MealName: mealName,
				Model:    model + suffixError,
				Error:    err.Error(),
				Debug:    debug,
			}, nil
		}
		debug[string(variant)] = map[string]interface{}{
			"finishReason": attempt.FinishReason,
			"safety":       attempt.Safety,
		}
		if attempt.HasImages() {
			result = attempt
			break
		}
	}

	if result == nil {
		return &ImageResponse{
			MealName: mealName,
			Model:    model,
			Error:    "No image returned",
			Debug:    debug,
		}, nil
	}

	mime := result.MimeType
	if mime == "" {
		mime = "image/png"
	}
	response := &ImageResponse{
		MealName:     mealName,
		Model:        model,
		ImageDataURL: fmt.Sprintf("data:%s;base64,%s", mime, result.ImagesBase64[0]),
		ImagesBase64: result.ImagesBase64,
		Debug:        debug,
	}

	if s.store != nil {
		if val, err := common.ToJSON(response); err == nil {
			if err := s.store.Put(ctx, key, val); err != nil {
				common.LogWarn("failed to cache image", zap.Error(err))
			}
		}
	}

	common.LogInfo("meal image generated",
		zap.String("meal", mealName),
		zap.Int("images", len(response.ImagesBase64)),
	)
	return response, nil
}

// buildImagePrompt keeps the subject first and the style directive
// minimal; text, watermarks and people are excluded from the frame.
func buildImagePrompt(mealName, description, styleHint string) string {
	style := styleHint
	if style == "" {
		style = defaultImageStyle
	}
	return fmt.Sprintf("Photograph of %s. %s\n%s. Show only the plated dish on a clean background. No text, no watermark, no people.",
		mealName, strings.TrimSpace(description), style)
}
