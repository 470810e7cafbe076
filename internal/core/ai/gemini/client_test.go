package gemini

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientWithoutAPIKey(t *testing.T) {
	client := NewClient(&config.Config{
		Gemini: config.GeminiConfig{
			TextModel:   "gemini-2.0-flash",
			VisionModel: "gemini-2.5-flash",
			ImageModel:  "gemini-2.5-flash-image-preview",
			Timeout:     time.Second,
		},
	})
	ctx := context.Background()

	_, err := client.GenerateText(ctx, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = client.GenerateVision(ctx, "what is this", []byte{1}, "image/png")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = client.GenerateImage(ctx, "a plate", ImageVariantPlain)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestEncodeBase64(t *testing.T) {
	assert.Equal(t, "Zm9v", encodeBase64([]byte("foo")))
}
