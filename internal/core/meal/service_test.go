package meal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient scripts model responses for the gateway services.
type fakeClient struct {
	textResp   string
	textErr    error
	textCalls  int
	visionResp string
	visionErr  error
	imageByVar map[gemini.ImageVariant]*gemini.ImageResult
	imageErr   error
	imageCalls []gemini.ImageVariant
}

func (f *fakeClient) GenerateText(_ context.Context, _ string) (string, error) {
	f.textCalls++
	return f.textResp, f.textErr
}

func (f *fakeClient) GenerateVision(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return f.visionResp, f.visionErr
}

func (f *fakeClient) GenerateImage(_ context.Context, _ string, variant gemini.ImageVariant) (*gemini.ImageResult, error) {
	f.imageCalls = append(f.imageCalls, variant)
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	if r, ok := f.imageByVar[variant]; ok {
		return r, nil
	}
	return &gemini.ImageResult{}, nil
}

// fakeStore is a map-backed cache.Store.
type fakeStore struct {
	mu    sync.Mutex
	items map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]string)}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *fakeStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *fakeStore) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Gemini: config.GeminiConfig{
			APIKey:      "test-key",
			TextModel:   "gemini-2.0-flash",
			VisionModel: "gemini-2.5-flash",
			ImageModel:  "gemini-2.5-flash-image-preview",
		},
	}
}

func TestGenerateMealsRequiresIngredients(t *testing.T) {
	svc := NewSuggestionService(testConfig(), &fakeClient{})

	_, err := svc.GenerateMeals(context.Background(), nil, 6)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))

	_, err = svc.GenerateMeals(context.Background(), []string{"  ", ""}, 6)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestGenerateMealsNoKeyFallback(t *testing.T) {
	svc := NewSuggestionService(testConfig(), &fakeClient{textErr: gemini.ErrNoAPIKey})

	resp, err := svc.GenerateMeals(context.Background(), []string{"chicken", "broccoli"}, 6)
	require.NoError(t, err)
	assert.Equal(t, "fallback:no-key", resp.Model)
	require.Len(t, resp.Meals, 4)
	assert.Equal(t, "Lemon Garlic Salmon", resp.Meals[0].Name)
	for _, m := range resp.Meals {
		assert.Equal(t, "fallback", m.Source)
	}
}

func TestGenerateMealsErrorFallback(t *testing.T) {
	svc := NewSuggestionService(testConfig(), &fakeClient{textErr: errors.New("upstream down")})

	resp, err := svc.GenerateMeals(context.Background(), []string{"egg"}, 6)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash:error-fallback", resp.Model)
	assert.Len(t, resp.Meals, 4)
}

func TestGenerateMealsParseFallback(t *testing.T) {
	svc := NewSuggestionService(testConfig(), &fakeClient{textResp: "I cannot produce JSON today, sorry."})

	resp, err := svc.GenerateMeals(context.Background(), []string{"egg"}, 6)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash:parse-fallback", resp.Model)
	assert.Len(t, resp.Meals, 4)
	assert.NotEmpty(t, resp.RawText)
}

func TestGenerateMealsSuccessNormalizes(t *testing.T) {
	raw := "```json\n" + `{"meals":[
		{"name":"Chicken Broccoli Bowl","description":"Roasted chicken with steamed broccoli over rice.",
		 "tags":["Chicken","BROCCOLI","unicorn dust"],"calories":650,"timeMinutes":35,"servings":2},
		{"name":"One Tag Wonder","description":"Dropped for thin tags.","tags":["chicken"],"calories":300},
		{"name":"Bad Numbers","description":"Out of range numbers get omitted, tags keep it alive.",
		 "tags":["chicken","broccoli"],"calories":10,"timeMinutes":5000,"servings":99}
	]}` + "\n```"
	client := &fakeClient{textResp: raw}
	svc := NewSuggestionService(testConfig(), client)

	resp, err := svc.GenerateMeals(context.Background(), []string{"chicken breast", "broccoli"}, 6)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
	require.Len(t, resp.Meals, 2)

	first := resp.Meals[0]
	assert.Equal(t, "Chicken Broccoli Bowl", first.Name)
	// Tags lowercased and restricted to request ingredient substrings.
	assert.Equal(t, []string{"chicken", "broccoli"}, first.Tags)
	assert.Equal(t, 650, first.Calories)
	assert.Equal(t, 35, first.TimeMinutes)
	assert.Equal(t, 2, first.Servings)
	assert.Equal(t, "gemini", first.Source)

	second := resp.Meals[1]
	assert.Equal(t, "Bad Numbers", second.Name)
	assert.Zero(t, second.Calories)
	assert.Zero(t, second.TimeMinutes)
	assert.Zero(t, second.Servings)
}

func TestGenerateMealsEmptyFallback(t *testing.T) {
	// Parsable output whose meals all get dropped in normalization.
	raw := `{"meals":[{"name":"Ghost Meal","description":"x","tags":["nothing","matches"]}]}`
	svc := NewSuggestionService(testConfig(), &fakeClient{textResp: raw})

	resp, err := svc.GenerateMeals(context.Background(), []string{"egg"}, 6)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash:empty-fallback", resp.Model)
	assert.Len(t, resp.Meals, 4)
}

func TestGenerateRecipeRequiresNameAndTags(t *testing.T) {
	svc := NewRecipeService(testConfig(), &fakeClient{}, nil)

	_, err := svc.GenerateRecipe(context.Background(), &RecipeRequest{MealName: "", Tags: []string{"egg"}})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.GenerateRecipe(context.Background(), &RecipeRequest{MealName: "Omelette"})
	assert.True(t, common.IsValidationError(err))
}

func TestGenerateRecipeCaching(t *testing.T) {
	raw := `{"ingredients":[{"item":"eggs","quantity":"3"}],"steps":["Beat eggs.","Cook."],"servings":2,"calories":300,"timeMinutes":10,"notes":[]}`
	client := &fakeClient{textResp: raw}
	store := newFakeStore()
	svc := NewRecipeService(testConfig(), client, store)

	req := &RecipeRequest{MealName: "Omelette", Tags: []string{"egg", "cheese"}}

	first, err := svc.GenerateRecipe(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, client.textCalls)
	require.Len(t, first.Ingredients, 1)
	assert.Equal(t, "eggs", first.Ingredients[0].Item)

	second, err := svc.GenerateRecipe(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	// Served from cache, no second upstream call.
	assert.Equal(t, 1, client.textCalls)
	assert.Equal(t, first.Ingredients, second.Ingredients)
}

func TestGenerateRecipeCacheKeyIgnoresTagOrder(t *testing.T) {
	assert.Equal(t,
		recipeCacheKey("Omelette", []string{"cheese", "egg"}),
		recipeCacheKey("OMELETTE", []string{"egg", "cheese"}),
	)
}

func TestGenerateRecipeRefreshBypassesCache(t *testing.T) {
	raw := `{"ingredients":[{"item":"eggs"}],"steps":["Cook."]}`
	client := &fakeClient{textResp: raw}
	store := newFakeStore()
	svc := NewRecipeService(testConfig(), client, store)

	req := &RecipeRequest{MealName: "Omelette", Tags: []string{"egg"}}
	_, err := svc.GenerateRecipe(context.Background(), req)
	require.NoError(t, err)

	req.Refresh = true
	resp, err := svc.GenerateRecipe(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, client.textCalls)
}

func TestGenerateRecipeParseFallback(t *testing.T) {
	client := &fakeClient{textResp: "nope"}
	store := newFakeStore()
	svc := NewRecipeService(testConfig(), client, store)

	resp, err := svc.GenerateRecipe(context.Background(), &RecipeRequest{
		MealName: "Mystery Stew",
		Tags:     []string{"carrot", "onion"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash:parse-fallback", resp.Model)
	require.Len(t, resp.Ingredients, 2)
	assert.Equal(t, "carrot", resp.Ingredients[0].Item)
	assert.Equal(t, []string{"Combine listed ingredients appropriately and cook until done."}, resp.Steps)
	assert.Equal(t, 2, resp.Servings)
	assert.Equal(t, []string{"Model parse fallback"}, resp.Notes)

	// The fallback is cached like a success.
	cached, err := svc.GenerateRecipe(context.Background(), &RecipeRequest{
		MealName: "Mystery Stew",
		Tags:     []string{"carrot", "onion"},
	})
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Equal(t, 1, client.textCalls)
}

func TestGenerateRecipeNoKeyNotCached(t *testing.T) {
	client := &fakeClient{textErr: gemini.ErrNoAPIKey}
	store := newFakeStore()
	svc := NewRecipeService(testConfig(), client, store)

	resp, err := svc.GenerateRecipe(context.Background(), &RecipeRequest{
		MealName: "Omelette",
		Tags:     []string{"egg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback:no-key", resp.Model)
	assert.Equal(t, "missing GEMINI_API_KEY", resp.Error)
	assert.Empty(t, store.items)
}

func TestGenerateRecipeUpstreamError(t *testing.T) {
	client := &fakeClient{textErr: errors.New("boom")}
	svc := NewRecipeService(testConfig(), client, newFakeStore())

	resp, err := svc.GenerateRecipe(context.Background(), &RecipeRequest{
		MealName: "Omelette",
		Tags:     []string{"egg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash:error", resp.Model)
	assert.Equal(t, "boom", resp.Error)
}

func TestGenerateImageVariantChain(t *testing.T) {
	client := &fakeClient{
		imageByVar: map[gemini.ImageVariant]*gemini.ImageResult{
			// Plain variant comes back empty, structured succeeds.
			gemini.ImageVariantPlain:      {FinishReason: "STOP"},
			gemini.ImageVariantStructured: {ImagesBase64: []string{"Zm9v"}, MimeType: "image/png"},
		},
	}
	svc := NewImageService(testConfig(), client, newFakeStore())

	resp, err := svc.GenerateImage(context.Background(), &ImageRequest{MealName: "Pesto Pasta"})
	require.NoError(t, err)
	assert.Equal(t, []gemini.ImageVariant{gemini.ImageVariantPlain, gemini.ImageVariantStructured}, client.imageCalls)
	assert.Equal(t, "data:image/png;base64,Zm9v", resp.ImageDataURL)
	assert.Empty(t, resp.Error)
	assert.Contains(t, resp.Debug, string(gemini.ImageVariantPlain))
}

func TestGenerateImageCaching(t *testing.T) {
	client := &fakeClient{
		imageByVar: map[gemini.ImageVariant]*gemini.ImageResult{
			gemini.ImageVariantPlain: {ImagesBase64: []string{"Zm9v"}, MimeType: "image/png"},
		},
	}
	svc := NewImageService(testConfig(), client, newFakeStore())

	first, err := svc.GenerateImage(context.Background(), &ImageRequest{MealName: "Pesto Pasta"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.GenerateImage(context.Background(), &ImageRequest{MealName: "pesto pasta"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ImageDataURL, second.ImageDataURL)
	// One upstream call total: cache key is case-insensitive.
	assert.Len(t, client.imageCalls, 1)
}

func TestGenerateImageNoImageReturned(t *testing.T) {
	svc := NewImageService(testConfig(), &fakeClient{}, nil)

	resp, err := svc.GenerateImage(context.Background(), &ImageRequest{MealName: "Toast"})
	require.NoError(t, err)
	assert.Equal(t, "No image returned", resp.Error)
	assert.Empty(t, resp.ImageDataURL)
	assert.Len(t, resp.Debug, 2)
}

func TestGenerateImageNoKey(t *testing.T) {
	svc := NewImageService(testConfig(), &fakeClient{imageErr: gemini.ErrNoAPIKey}, nil)

	resp, err := svc.GenerateImage(context.Background(), &ImageRequest{MealName: "Toast"})
	require.NoError(t, err)
	assert.Equal(t, "fallback:no-key", resp.Model)
}

func TestGenerateImageRequiresMealName(t *testing.T) {
	svc := NewImageService(testConfig(), &fakeClient{}, nil)
	_, err := svc.GenerateImage(context.Background(), &ImageRequest{MealName: "  "})
	assert.True(t, common.IsValidationError(err))
}

func TestExtractIngredientsNormalizes(t *testing.T) {
	client := &fakeClient{visionResp: `["tomato", "Tomato", "  onion "]`}
	svc := NewVisionService(testConfig(), client)

	resp, err := svc.ExtractIngredients(context.Background(), []byte{1, 2, 3}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.Equal(t, []string{"tomato", "onion"}, resp.Ingredients)
	assert.Empty(t, resp.Error)
}

func TestExtractIngredientsRequiresImage(t *testing.T) {
	svc := NewVisionService(testConfig(), &fakeClient{})
	_, err := svc.ExtractIngredients(context.Background(), nil, "image/png")
	assert.True(t, common.IsValidationError(err))
}

func TestExtractIngredientsUpstreamError(t *testing.T) {
	svc := NewVisionService(testConfig(), &fakeClient{visionErr: errors.New("down")})

	resp, err := svc.ExtractIngredients(context.Background(), []byte{1}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "vision-error", resp.Error)
	assert.Empty(t, resp.Ingredients)
}

func TestExtractIngredientsUnparsableOutput(t *testing.T) {
	svc := NewVisionService(testConfig(), &fakeClient{visionResp: "I see food."})

	resp, err := svc.ExtractIngredients(context.Background(), []byte{1}, "image/png")
	require.NoError(t, err)
	assert.NotNil(t, resp.Ingredients)
	assert.Empty(t, resp.Ingredients)
}
