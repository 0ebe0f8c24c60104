package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/nmrsim/internal/api/handlers"
	"github.com/RMahshie/nmrsim/internal/processing"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, svc processing.SimulationService) {
	peaksHandler := handlers.NewPeaksHandler(svc)
	spectrumHandler := handlers.NewSpectrumHandler(svc)

	// Register stateless peak routes
	huma.Register(api, huma.Operation{
		OperationID: "parsePeaks",
		Method:      http.MethodPost,
		Path:        "/api/peaks/parse",
		Summary:     "Parse peak text",
		Description: "Reads literature-style or tabulated peak text and reports lines that could not be parsed",
		Tags:        []string{"Peaks"},
	}, peaksHandler.ParsePeaks)

	huma.Register(api, huma.Operation{
		OperationID: "analyzePeaks",
		Method:      http.MethodPost,
		Path:        "/api/peaks/analyze",
		Summary:     "Group lines into multiplets",
		Description: "Groups raw lines and infers multiplicity, coupling constants, integration and labels",
		Tags:        []string{"Peaks"},
	}, peaksHandler.AnalyzePeaks)

	// Register session routes
	huma.Register(api, huma.Operation{
		OperationID:   "createSpectrum",
		Method:        http.MethodPost,
		Path:          "/api/spectra",
		Summary:       "Simulate a spectrum",
		Description:   "Parses, optionally groups and renders peaks, then stores the session",
		Tags:          []string{"Spectra"},
		DefaultStatus: http.StatusCreated,
	}, spectrumHandler.CreateSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "listSpectra",
		Method:      http.MethodGet,
		Path:        "/api/spectra",
		Summary:     "List sessions",
		Description: "Returns recent sessions without rendered arrays",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.ListSpectra)

	huma.Register(api, huma.Operation{
		OperationID: "getSpectrum",
		Method:      http.MethodGet,
		Path:        "/api/spectra/{id}",
		Summary:     "Get a session",
		Description: "Loads a session and regenerates its ppm axis and intensity",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.GetSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "updatePeaks",
		Method:      http.MethodPut,
		Path:        "/api/spectra/{id}/peaks",
		Summary:     "Replace session peaks",
		Description: "Replaces the peak list and returns the re-rendered spectrum",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.UpdatePeaks)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteSpectrum",
		Method:        http.MethodDelete,
		Path:          "/api/spectra/{id}",
		Summary:       "Delete a session",
		Description:   "Deletes a session together with its exported files",
		Tags:          []string{"Spectra"},
		DefaultStatus: http.StatusNoContent,
	}, spectrumHandler.DeleteSpectrum)

	// Register export routes
	huma.Register(api, huma.Operation{
		OperationID: "createExport",
		Method:      http.MethodPost,
		Path:        "/api/spectra/{id}/exports/{format}",
		Summary:     "Export a session",
		Description: "Writes the session in the requested format to object storage and returns a download URL",
		Tags:        []string{"Exports"},
	}, spectrumHandler.CreateExport)

	huma.Register(api, huma.Operation{
		OperationID: "listExports",
		Method:      http.MethodGet,
		Path:        "/api/spectra/{id}/exports",
		Summary:     "List session exports",
		Description: "Returns the export records of a session, newest first",
		Tags:        []string{"Exports"},
	}, spectrumHandler.ListExports)
}
