package service

import (
	"context"

	"github.com/pageza/nutrilens/backend/internal/models"
	"github.com/pageza/nutrilens/backend/internal/types"
	"github.com/rs/zerolog/log"
)

// AnalysisOutcome is the result of one label analysis.
type AnalysisOutcome struct {
	Result *types.AnalysisResult
	// Degraded is set when no label text could be extracted.
	Degraded   bool
	ArchiveKey string
}

// AnalysisService runs the label pipeline: preprocess, extract, archive, analyze.
type AnalysisService struct {
	preprocessor *Preprocessor
	extractor    TextExtractor
	provider     AnalysisProvider
	archive      LabelArchive
}

// NewAnalysisService wires the pipeline. archive may be nil.
func NewAnalysisService(preprocessor *Preprocessor, extractor TextExtractor, provider AnalysisProvider, archive LabelArchive) *AnalysisService {
	return &AnalysisService{
		preprocessor: preprocessor,
		extractor:    extractor,
		provider:     provider,
		archive:      archive,
	}
}

func (s *AnalysisService) Analyze(ctx context.Context, data []byte, profile *models.Profile) (*AnalysisOutcome, error) {
	prepared, err := s.preprocessor.Prepare(data)
	if err != nil {
		return nil, err
	}

	outcome := &AnalysisOutcome{}

	text := ""
	outcome.Degraded = !s.extractor.Available()
	if !outcome.Degraded {
		text, err = s.extractor.ExtractText(ctx, prepared.Binary)
		if err != nil {
			log.Warn().Err(err).Str("component", "ocr").Msg("text extraction failed, continuing without label text")
			text = ""
			outcome.Degraded = true
		}
	}

	if s.archive != nil {
		key, err := s.archive.Store(ctx, data, prepared.ContentType, prepared.Extension)
		if err != nil {
			log.Warn().Err(err).Str("component", "archive").Msg("failed to archive label image")
		} else {
			outcome.ArchiveKey = key
		}
	}

	log.Debug().Str("component", "analysis").Int("text_length", len(text)).Bool("profile", profile != nil).
		Bool("degraded", outcome.Degraded).Msg("requesting label analysis")

	outcome.Result, err = s.provider.AnalyzeLabel(ctx, text, profile)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
