// Package gemini wraps the two generative-model calls behind the try-on
// pipeline: a vision call that describes a garment photo and an
// image-editing call that composites the garment onto the subject photo.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	describeModel  = "gemini-2.0-flash"
	compositeModel = "gemini-2.0-flash-exp-image-generation"
)

// ErrNoImage is returned when the composite call answers without any
// inline image part.
var ErrNoImage = errors.New("model returned no image")

const describeInstruction = `ONLY GIVE ME THE DESCRIPTION: THE GARMENT TYPE AND ITS STANDOUT FEATURES. ` +
	`Example output (Anorak: lightweight, nylon, short zipper, drawstring hood, color-block details ` +
	`(blue and black) on the shoulders and sleeves. KINGOFTHEKONGO logo, ADIDAS, etc.). ` +
	`THE EXPECTED OUTPUT MUST BE IN ENGLISH`

// Client holds a single long-lived connection to the Gemini API. Construct
// it once at startup and inject it wherever generation is needed.
type Client struct {
	genai *genai.Client
}

// NewClient creates a Gemini client using the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{genai: c}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// DescribeGarment sends a normalized garment JPEG to the vision model and
// returns the first text part of the response. The text is taken as-is;
// no length or content validation is applied.
func (c *Client) DescribeGarment(ctx context.Context, garmentJPEG []byte) (string, error) {
	model := c.genai.GenerativeModel(describeModel)

	resp, err := model.GenerateContent(ctx,
		genai.Text(describeInstruction),
		genai.ImageData("jpeg", garmentJPEG),
	)
	if err != nil {
		return "", fmt.Errorf("failed to describe garment: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("describe call returned no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", fmt.Errorf("describe call returned no text part")
}

// GenerateComposite sends the garment description plus both normalized
// images to the image-editing model and returns the bytes of the first
// part carrying inline image data. Returns ErrNoImage when the response
// contains no image part.
func (c *Client) GenerateComposite(ctx context.Context, description string, garmentJPEG, subjectJPEG []byte) ([]byte, error) {
	model := c.genai.GenerativeModel(compositeModel)

	resp, err := model.GenerateContent(ctx,
		genai.Text(CompositePrompt(description)),
		genai.ImageData("jpeg", garmentJPEG),
		genai.ImageData("jpeg", subjectJPEG),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate composite: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return blob.Data, nil
		}
	}
	return nil, ErrNoImage
}
