// Package catalog holds the static ingredient list and its search.
package catalog

import "strings"

// Limit bounds for Search.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Ingredients is the known ingredient catalog, in display order.
// Uniqueness is by case-insensitive name. In production this could load
// from a database or external API; a fixed list is enough at this scale.
var Ingredients = []string{
	"apple", "apricot", "artichoke", "arugula", "asparagus", "avocado", "banana", "basil",
	"bay leaf", "beans", "beef broth", "black beans", "black pepper", "blueberry", "bok choy",
	"bread crumbs", "broccoli", "brown rice", "brussels sprouts", "butter", "cabbage",
	"canola oil", "capers", "carrot", "cauliflower", "celery", "chia seeds", "chicken breast",
	"chicken thighs", "chickpeas", "cilantro", "cinnamon", "cocoa powder", "coconut milk",
	"coconut oil", "corn", "corn starch", "cottage cheese", "cranberry", "cream cheese",
	"cucumber", "cumin", "currants", "curry powder", "dates", "dill", "egg", "eggplant",
	"fennel", "flax seeds", "garlic", "ginger", "goat cheese", "green beans", "green onion",
	"ground beef", "ground turkey", "honey", "jalapeno", "kale", "kidney beans", "lemon",
	"lentils", "lettuce", "lime", "maple syrup", "mayonnaise", "milk", "mint", "miso",
	"mozzarella", "mushroom", "mustard", "nutmeg", "oats", "olive oil", "onion", "orange",
	"paprika", "parmesan", "parsley", "peach", "peanut butter", "peanuts", "pear", "peas",
	"pesto", "pine nuts", "pinto beans", "pistachios", "plantain", "pork loin", "potato",
	"pumpkin", "quinoa", "radish", "raisins", "raspberry", "red bell pepper", "red cabbage",
	"red onion", "rice", "rice vinegar", "rosemary", "sage", "salmon", "sesame oil",
	"sesame seeds", "shrimp", "soy sauce", "spinach", "squash", "strawberry",
	"sunflower seeds", "sweet potato", "thyme", "tortilla", "tofu", "tomato", "turmeric",
	"tuna", "vanilla extract", "walnuts", "watermelon", "yogurt", "zucchini",
}

// ClampLimit clamps limit to [1, MaxLimit], substituting DefaultLimit for
// non-positive values when defaulted is true.
func ClampLimit(limit int, defaulted bool) int {
	if defaulted || limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Search returns up to limit catalog entries whose lowercase form contains
// the lowercase query. An empty query returns the first limit entries in
// catalog order. Never fails; an empty slice means no match.
func Search(query string, limit int) []string {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if limit > len(Ingredients) {
			limit = len(Ingredients)
		}
		out := make([]string, limit)
		copy(out, Ingredients[:limit])
		return out
	}

	needle := strings.ToLower(query)
	out := make([]string, 0, limit)
	for _, ing := range Ingredients {
		if strings.Contains(strings.ToLower(ing), needle) {
			out = append(out, ing)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
