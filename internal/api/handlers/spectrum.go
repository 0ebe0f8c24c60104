package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/nmrsim/internal/export"
	"github.com/RMahshie/nmrsim/internal/processing"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// SpectrumHandler handles simulation session requests
type SpectrumHandler struct {
	svc processing.SimulationService
}

// NewSpectrumHandler creates a new spectrum handler
func NewSpectrumHandler(svc processing.SimulationService) *SpectrumHandler {
	return &SpectrumHandler{svc: svc}
}

// CreateSpectrum simulates a spectrum and stores the session
func (h *SpectrumHandler) CreateSpectrum(ctx context.Context, req *models.CreateSpectrumRequest) (*models.SpectrumResponse, error) {
	if req.Body.Text == "" && len(req.Body.Peaks) == 0 {
		return nil, huma.Error400BadRequest("Provide peak text or a peak list", nil)
	}

	res, err := h.svc.Simulate(ctx, processing.SimulationInput{
		Title:         req.Body.Title,
		Text:          req.Body.Text,
		Peaks:         req.Body.Peaks,
		Nucleus:       models.ParseNucleus(req.Body.Nucleus),
		FieldStrength: req.Body.FieldStrength,
		PPMRange:      req.Body.PPMRange,
		Resolution:    req.Body.Resolution,
		NoiseLevel:    req.Body.NoiseLevel,
		Seed:          req.Body.Seed,
		GroupingMode:  req.Body.GroupingMode,
	})
	if err != nil {
		return nil, serviceError("Failed to simulate spectrum", err)
	}

	return spectrumResponse(res), nil
}

// GetSpectrum loads a session and regenerates its arrays
func (h *SpectrumHandler) GetSpectrum(ctx context.Context, req *models.GetSpectrumRequest) (*models.SpectrumResponse, error) {
	res, err := h.svc.GetSession(ctx, req.ID)
	if err != nil {
		return nil, serviceError("Failed to load session", err)
	}
	return spectrumResponse(res), nil
}

// ListSpectra lists recent sessions
func (h *SpectrumHandler) ListSpectra(ctx context.Context, req *models.ListSpectraRequest) (*models.ListSpectraResponse, error) {
	sessions, err := h.svc.ListSessions(ctx, req.Limit)
	if err != nil {
		return nil, serviceError("Failed to list sessions", err)
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}

	resp := &models.ListSpectraResponse{}
	resp.Body.Sessions = sessions
	return resp, nil
}

// UpdatePeaks replaces a session's peak list and re-renders it
func (h *SpectrumHandler) UpdatePeaks(ctx context.Context, req *models.UpdatePeaksRequest) (*models.SpectrumResponse, error) {
	res, err := h.svc.UpdatePeaks(ctx, req.ID, req.Body.Peaks)
	if err != nil {
		return nil, serviceError("Failed to update peaks", err)
	}
	return spectrumResponse(res), nil
}

// DeleteSpectrum removes a session and its exports
func (h *SpectrumHandler) DeleteSpectrum(ctx context.Context, req *models.DeleteSpectrumRequest) (*struct{}, error) {
	if err := h.svc.DeleteSession(ctx, req.ID); err != nil {
		return nil, serviceError("Failed to delete session", err)
	}
	log.Info().Str("sessionID", req.ID).Msg("Session deleted")
	return nil, nil
}

// CreateExport writes a session export and returns a download link
func (h *SpectrumHandler) CreateExport(ctx context.Context, req *models.CreateExportRequest) (*models.CreateExportResponse, error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest("Unsupported export format", err)
	}

	res, err := h.svc.Export(ctx, req.ID, format)
	if err != nil {
		return nil, serviceError("Failed to export session", err)
	}

	return &models.CreateExportResponse{
		Body: models.CreateExportResponseBody{
			ID:          res.Record.ID,
			Format:      res.Record.Format,
			DownloadURL: res.DownloadURL,
			ExpiresIn:   int(res.ExpiresIn.Seconds()),
		},
	}, nil
}

// ListExports lists the exports of a session
func (h *SpectrumHandler) ListExports(ctx context.Context, req *models.ListExportsRequest) (*models.ListExportsResponse, error) {
	records, err := h.svc.ListExports(ctx, req.ID)
	if err != nil {
		return nil, serviceError("Failed to list exports", err)
	}

	resp := &models.ListExportsResponse{}
	resp.Body.Exports = records
	return resp, nil
}

func spectrumResponse(res *processing.SimulationResult) *models.SpectrumResponse {
	return &models.SpectrumResponse{
		Body: models.SpectrumResponseBody{
			Session:   res.Session,
			PPMAxis:   res.Axis,
			Intensity: res.Intensity,
		},
	}
}
