package plan

import (
	"net/http"

	"meal-planner/internal/core/plan"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ItemRequest names one grocery bag item or favorite meal.
type ItemRequest struct {
	Name string `json:"name" binding:"required"`
}

// ScheduleRequest adds or removes a scheduled meal. Slot may be empty on
// removal, which clears the meal from every slot on that date.
type ScheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"required"`
	Slot string `json:"slot,omitempty"`
}

// Handler serves the grocery bag, favorites and schedule endpoints.
type Handler struct {
	bag       *plan.Bag
	favorites *plan.Favorites
	schedule  *plan.Schedule
}

// NewHandler creates a plan handler.
func NewHandler(bag *plan.Bag, favorites *plan.Favorites, schedule *plan.Schedule) *Handler {
	return &Handler{bag: bag, favorites: favorites, schedule: schedule}
}

// HandleBagList returns the bag contents in insertion order.
func (h *Handler) HandleBagList(c *gin.Context) {
	items := h.bag.Items()
	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}

// HandleBagAdd adds an ingredient; already-present names are a no-op.
func (h *Handler) HandleBagAdd(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	h.bag.Add(req.Name)
	c.JSON(http.StatusOK, gin.H{"items": h.bag.Items()})
}

// HandleBagRemove removes an ingredient.
func (h *Handler) HandleBagRemove(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	h.bag.Remove(req.Name)
	c.JSON(http.StatusOK, gin.H{"items": h.bag.Items()})
}

// HandleBagToggle flips an ingredient's bag membership.
func (h *Handler) HandleBagToggle(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	h.bag.Toggle(req.Name)
	c.JSON(http.StatusOK, gin.H{
		"present": h.bag.Has(req.Name),
		"items":   h.bag.Items(),
	})
}

// HandleFavoritesList returns starred meals, most recent first.
func (h *Handler) HandleFavoritesList(c *gin.Context) {
	names := h.favorites.Names()
	c.JSON(http.StatusOK, gin.H{
		"count": len(names),
		"names": names,
	})
}

// HandleFavoritesToggle flips a meal's starred state.
func (h *Handler) HandleFavoritesToggle(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	h.favorites.Toggle(req.Name)
	c.JSON(http.StatusOK, gin.H{
		"favorited": h.favorites.Has(req.Name),
		"names":     h.favorites.Names(),
	})
}

// HandleScheduleDay returns the meals scheduled for one date.
func (h *Handler) HandleScheduleDay(c *gin.Context) {
	date, err := plan.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries := h.schedule.MealsFor(date)
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"meals": entries,
	})
}

// HandleScheduleAdd schedules a meal; slot is required here.
func (h *Handler) HandleScheduleAdd(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and name are required"})
		return
	}
	date, err := plan.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := plan.ParseSlot(req.Slot)
	if err != nil || slot == "" {
		if err == nil {
			err = common.NewValidationError("slot is required")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.schedule.Add(date, req.Name, slot)
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"meals": h.schedule.MealsFor(date),
	})
}

// HandleScheduleRemove unschedules a meal; an empty slot clears the meal
// from all slots on that date.
func (h *Handler) HandleScheduleRemove(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and name are required"})
		return
	}
	date, err := plan.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := plan.ParseSlot(req.Slot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.schedule.Remove(date, req.Name, slot)
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"meals": h.schedule.MealsFor(date),
	})
}
