package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// VisionRecognizer calls Google Cloud Vision document text detection.
type VisionRecognizer struct {
	client *vision.ImageAnnotatorClient
}

func NewVisionRecognizer(ctx context.Context) (*VisionRecognizer, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionRecognizer{client: client}, nil
}

func (r *VisionRecognizer) Name() string { return "vision" }

func (r *VisionRecognizer) Close() error {
	return r.client.Close()
}

func (r *VisionRecognizer) Recognize(ctx context.Context, imageBytes []byte, languageHint string) (string, error) {
	if len(imageBytes) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: imageBytes},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	}
	if languageHint != "" {
		req.ImageContext = &visionpb.ImageContext{
			LanguageHints: languageHintsFromSpec(languageHint),
		}
	}

	resp, err := r.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil {
		return "", nil
	}

	return strings.TrimSpace(r0.FullTextAnnotation.Text), nil
}

// languageHintsFromSpec converts a tesseract-style language spec ("swe+eng")
// to the BCP-47 hints Vision expects.
func languageHintsFromSpec(spec string) []string {
	mapping := map[string]string{
		"swe": "sv",
		"eng": "en",
		"deu": "de",
		"fra": "fr",
		"fin": "fi",
		"nor": "no",
		"dan": "da",
	}
	var hints []string
	for _, lang := range strings.Split(spec, "+") {
		lang = strings.TrimSpace(lang)
		if code, ok := mapping[lang]; ok {
			hints = append(hints, code)
		} else if lang != "" {
			hints = append(hints, lang)
		}
	}
	return hints
}
