package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ImageVariant names one of the two image request shapes. The plain shape
// is tried first; the structured shape is the documented retry when the
// model returns no inline image.
type ImageVariant string

const (
	ImageVariantPlain      ImageVariant = "plain-prompt"
	ImageVariantStructured ImageVariant = "structured-role"
)

// ImageResult is the outcome of one image generation call.
type ImageResult struct {
	ImagesBase64 []string
	MimeType     string
	FinishReason string
	Safety       json.RawMessage
}

// HasImages reports whether at least one inline image was returned.
func (r *ImageResult) HasImages() bool {
	return r != nil && len(r.ImagesBase64) > 0
}

// maxScanDepth bounds the structural fallback scan of the raw response.
const maxScanDepth = 8

// GenerateImage runs an image generation prompt against the image model
// using the given request variant. Inline images are pulled from the typed
// response first; a depth-bounded scan of the raw body covers payloads the
// schema misses.
func (c *Client) GenerateImage(ctx context.Context, prompt string, variant ImageVariant) (*ImageResult, error) {
	req := &GenerateRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}
	if variant == ImageVariantStructured {
		req.Contents[0].Role = "user"
		req.GenerationConfig = &GenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		}
	}

	resp, raw, err := c.generate(ctx, c.config.Gemini.ImageModel, req)
	if err != nil {
		return nil, err
	}

	result := &ImageResult{}
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		result.FinishReason = cand.FinishReason
		result.Safety = cand.SafetyRatings
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				result.ImagesBase64 = append(result.ImagesBase64, part.InlineData.Data)
				if result.MimeType == "" {
					result.MimeType = part.InlineData.MimeType
				}
			}
		}
	}

	if len(result.ImagesBase64) == 0 {
		// Provider has shipped inline payloads under shifting key casings
		// before; the bounded scan catches those without trusting the
		// schema for anything else.
		var tree interface{}
		if json.Unmarshal(raw, &tree) == nil {
			scanInlineData(tree, 0, result)
		}
	}

	common.LogInfo("gemini image response",
		zap.String("model", c.config.Gemini.ImageModel),
		zap.String("variant", string(variant)),
		zap.Int("images", len(result.ImagesBase64)),
		zap.String("finish_reason", result.FinishReason),
	)

	return result, nil
}

// scanInlineData walks a decoded JSON tree looking for inlineData /
// inline_data nodes carrying a base64 payload. Depth is bounded so a
// pathological response cannot recurse without limit.
func scanInlineData(node interface{}, depth int, out *ImageResult) {
	if depth > maxScanDepth || node == nil {
		return
	}
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			scanInlineData(item, depth+1, out)
		}
	case map[string]interface{}:
		for _, key := range []string{"inlineData", "inline_data"} {
			idata, ok := v[key].(map[string]interface{})
			if !ok {
				continue
			}
			data, ok := idata["data"].(string)
			if !ok || data == "" {
				continue
			}
			out.ImagesBase64 = append(out.ImagesBase64, data)
			if out.MimeType == "" {
				if mime, ok := idata["mimeType"].(string); ok {
					out.MimeType = mime
				} else if mime, ok := idata["mime_type"].(string); ok {
					out.MimeType = mime
				}
			}
		}
		for _, item := range v {
			scanInlineData(item, depth+1, out)
		}
	}
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
