package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/nmrsim/internal/processing"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// PeaksHandler handles stateless parse and analyze requests
type PeaksHandler struct {
	svc processing.SimulationService
}

// NewPeaksHandler creates a new peaks handler
func NewPeaksHandler(svc processing.SimulationService) *PeaksHandler {
	return &PeaksHandler{svc: svc}
}

// ParsePeaks reads free-text peak listings
func (h *PeaksHandler) ParsePeaks(ctx context.Context, req *models.ParsePeaksRequest) (*models.ParsePeaksResponse, error) {
	res := h.svc.Parse(ctx, processing.ParseInput{
		Text:          req.Body.Text,
		Nucleus:       models.ParseNucleus(req.Body.Nucleus),
		FieldStrength: req.Body.FieldStrength,
	})

	log.Info().Int("peaks", len(res.Peaks)).Int("skipped", res.Skipped).Msg("Parsed peak text")

	peaks := res.Peaks
	if peaks == nil {
		peaks = []models.Peak{}
	}
	return &models.ParsePeaksResponse{
		Body: models.ParsePeaksResponseBody{
			Peaks:        peaks,
			Skipped:      res.Skipped,
			SkippedLines: res.SkippedLines,
		},
	}, nil
}

// AnalyzePeaks groups lines into multiplets
func (h *PeaksHandler) AnalyzePeaks(ctx context.Context, req *models.AnalyzePeaksRequest) (*models.AnalyzePeaksResponse, error) {
	res, err := h.svc.Analyze(ctx, processing.AnalyzeInput{
		Text:              req.Body.Text,
		Peaks:             req.Body.Peaks,
		Nucleus:           models.ParseNucleus(req.Body.Nucleus),
		FieldStrength:     req.Body.FieldStrength,
		Mode:              req.Body.Mode,
		IntegrationPolicy: req.Body.IntegrationPolicy,
		TotalProtons:      req.Body.TotalProtons,
	})
	if err != nil {
		return nil, serviceError("Failed to analyze peaks", err)
	}

	return &models.AnalyzePeaksResponse{
		Body: models.AnalyzePeaksResponseBody{
			Mode:    res.Mode.String(),
			Groups:  res.Groups,
			Peaks:   res.Peaks,
			Dropped: res.Dropped,
			Skipped: res.Skipped,
		},
	}, nil
}
