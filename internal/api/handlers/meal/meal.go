package meal

import (
	"net/http"

	"meal-planner/internal/core/meal"
	"meal-planner/internal/core/plan"
	"meal-planner/internal/core/suggest"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateMealsRequest asks for meal ideas from a list of ingredients.
type GenerateMealsRequest struct {
	Ingredients []string `json:"ingredients"`
	MaxMeals    int      `json:"maxMeals,omitempty"`
}

// RankRequest re-ranks candidate meals against the current bag.
type RankRequest struct {
	Meals []suggest.Candidate `json:"meals" binding:"required"`
}

// Handler serves the generation and ranking endpoints.
type Handler struct {
	suggestions *meal.SuggestionService
	recipes     *meal.RecipeService
	images      *meal.ImageService
	bag         *plan.Bag
	favorites   *plan.Favorites
}

// NewHandler creates a meal handler.
func NewHandler(suggestions *meal.SuggestionService, recipes *meal.RecipeService, images *meal.ImageService, bag *plan.Bag, favorites *plan.Favorites) *Handler {
	return &Handler{
		suggestions: suggestions,
		recipes:     recipes,
		images:      images,
		bag:         bag,
		favorites:   favorites,
	}
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// HandleGenerateMeals generates meal suggestions for a set of
// ingredients. Upstream failures still answer 200 with a fallback body;
// only missing input is a client error.
func (h *Handler) HandleGenerateMeals(c *gin.Context) {
	reqID := requestID(c)

	var req GenerateMealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("Invalid request format",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// An empty body falls back to the server-side grocery bag.
	ingredients := req.Ingredients
	if len(ingredients) == 0 && h.bag != nil {
		ingredients = h.bag.Items()
	}

	result, err := h.suggestions.GenerateMeals(c.Request.Context(), ingredients, req.MaxMeals)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("Meal generation failed",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Meal generation failed"})
		return
	}

	common.LogInfo("Meals generated",
		zap.String("request_id", reqID),
		zap.String("model", result.Model),
		zap.Int("meal_count", len(result.Meals)),
	)
	c.JSON(http.StatusOK, result)
}

// HandleRecipe generates (or serves a cached) full recipe for one meal.
func (h *Handler) HandleRecipe(c *gin.Context) {
	reqID := requestID(c)

	var req meal.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("Invalid request format",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.recipes.GenerateRecipe(c.Request.Context(), &req)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("Recipe generation failed",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recipe generation failed"})
		return
	}

	common.LogInfo("Recipe generated",
		zap.String("request_id", reqID),
		zap.String("meal_name", result.MealName),
		zap.String("model", result.Model),
		zap.Bool("cached", result.Cached),
	)
	c.JSON(http.StatusOK, result)
}

// HandleImage generates (or serves a cached) meal photo as a data URL.
func (h *Handler) HandleImage(c *gin.Context) {
	reqID := requestID(c)

	var req meal.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("Invalid request format",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.images.GenerateImage(c.Request.Context(), &req)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("Image generation failed",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image generation failed"})
		return
	}

	common.LogInfo("Image generated",
		zap.String("request_id", reqID),
		zap.String("meal_name", result.MealName),
		zap.String("model", result.Model),
		zap.Bool("cached", result.Cached),
		zap.Bool("has_image", result.ImageDataURL != ""),
	)
	c.JSON(http.StatusOK, result)
}

// HandleRank scores candidate meals against the current grocery bag and
// favorites.
func (h *Handler) HandleRank(c *gin.Context) {
	reqID := requestID(c)

	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("Invalid request format",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ranked := suggest.Rank(req.Meals, h.bag.Items(), h.favorites.Names())
	c.JSON(http.StatusOK, gin.H{
		"count": len(ranked),
		"meals": ranked,
	})
}
