package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/rs/zerolog/log"
)

// TextExtractor turns a binarized label image into text.
type TextExtractor interface {
	ExtractText(ctx context.Context, img *image.Gray) (string, error)
	// Available reports whether a real OCR engine backs the extractor.
	Available() bool
}

// RekognitionAPI is the subset of the Rekognition client used for OCR.
type RekognitionAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionExtractor extracts text with Amazon Rekognition DetectText.
type RekognitionExtractor struct {
	client        RekognitionAPI
	minConfidence float32
}

func NewRekognitionExtractor(client RekognitionAPI) *RekognitionExtractor {
	return &RekognitionExtractor{client: client, minConfidence: 50}
}

func (r *RekognitionExtractor) Available() bool { return true }

// ExtractText returns the detected lines joined by newlines, in the order
// Rekognition reports them.
func (r *RekognitionExtractor) ExtractText(ctx context.Context, img *image.Gray) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &rektypes.Image{Bytes: buf.Bytes()},
		Filters: &rektypes.DetectTextFilters{
			WordFilter: &rektypes.DetectionFilter{MinConfidence: aws.Float32(r.minConfidence)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: rekognition: %v", ErrExternalService, err)
	}

	var lines []string
	for _, d := range out.TextDetections {
		if d.Type != rektypes.TextTypesLine {
			continue
		}
		if text := strings.TrimSpace(aws.ToString(d.DetectedText)); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// UnavailableExtractor stands in when no OCR engine could be configured.
// Every extraction yields empty text.
type UnavailableExtractor struct {
	Reason string
}

func (u UnavailableExtractor) Available() bool { return false }

func (u UnavailableExtractor) ExtractText(ctx context.Context, img *image.Gray) (string, error) {
	return "", nil
}

// NewTextExtractor picks the extractor for the configured engine. A nil
// client, or the engine "none", yields an UnavailableExtractor and a warning.
func NewTextExtractor(engine string, client RekognitionAPI) TextExtractor {
	if engine == "rekognition" && client != nil {
		return NewRekognitionExtractor(client)
	}

	reason := "OCR disabled by configuration"
	if engine == "rekognition" {
		reason = "Rekognition client unavailable"
	}
	log.Warn().Str("component", "ocr").Str("engine", engine).Msgf("%s, label text will be empty", reason)
	return UnavailableExtractor{Reason: reason}
}
