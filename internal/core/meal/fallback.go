package meal

// Provenance markers for degraded generation paths.
const (
	markerNoKey         = "fallback:no-key"
	suffixParseFallback = ":parse-fallback"
	suffixEmptyFallback = ":empty-fallback"
	suffixErrorFallback = ":error-fallback"
	suffixError         = ":error"
)

// fallbackMeals returns the canned catalog served when the model call
// fails or its output cannot be used. A fresh slice each call so callers
// may annotate freely.
func fallbackMeals() []Suggestion {
	return []Suggestion{
		{
			Name:        "Lemon Garlic Salmon",
			Description: "Salmon baked with fresh lemon and garlic.",
			Tags:        []string{"salmon", "lemon", "garlic"},
			Calories:    620,
			TimeMinutes: 28,
			Servings:    2,
			Source:      "fallback",
		},
		{
			Name:        "Pesto Pasta",
			Description: "Classic basil pesto tossed with pasta and parmesan.",
			Tags:        []string{"basil", "parmesan", "pasta"},
			Calories:    740,
			TimeMinutes: 25,
			Servings:    3,
			Source:      "fallback",
		},
		{
			Name:        "Chicken Caesar Wrap",
			Description: "Grilled chicken, lettuce and dressing in a tortilla.",
			Tags:        []string{"chicken", "lettuce", "tortilla"},
			Calories:    540,
			TimeMinutes: 18,
			Servings:    2,
			Source:      "fallback",
		},
		{
			Name:        "Veggie Stir Fry",
			Description: "Mixed vegetables quickly stir-fried in savory sauce.",
			Tags:        []string{"broccoli", "carrot", "soy sauce"},
			Calories:    410,
			TimeMinutes: 20,
			Servings:    2,
			Source:      "fallback",
		},
	}
}
