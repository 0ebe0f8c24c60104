package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ParsePeaksRequest represents a request to parse free-text peak data
type ParsePeaksRequest struct {
	Body struct {
		Text          string  `json:"text" maxLength:"200000" required:"true" doc:"Peak list text, one signal per line or separated by semicolons"`
		Nucleus       string  `json:"nucleus,omitempty" example:"1H" doc:"Observed nucleus"`
		FieldStrength float64 `json:"field_strength,omitempty" minimum:"0" doc:"Spectrometer frequency in MHz, used for Hz line widths"`
	}
}

// ParsePeaksResponseBody is the body of the parse response
type ParsePeaksResponseBody struct {
	Peaks        []Peak   `json:"peaks" doc:"Parsed peaks in input order"`
	Skipped      int      `json:"skipped" doc:"Number of lines that could not be parsed"`
	SkippedLines []string `json:"skipped_lines,omitempty" doc:"The unparsed lines"`
}

// ParsePeaksResponse represents the parse result
type ParsePeaksResponse struct {
	Body ParsePeaksResponseBody
}

// AnalyzePeaksRequest represents a request to group lines into multiplets
type AnalyzePeaksRequest struct {
	Body struct {
		Text              string  `json:"text,omitempty" maxLength:"200000" doc:"Peak list text; used when peaks is empty"`
		Peaks             []Peak  `json:"peaks,omitempty" doc:"Raw lines to group"`
		Nucleus           string  `json:"nucleus,omitempty" example:"1H" doc:"Observed nucleus"`
		FieldStrength     float64 `json:"field_strength,omitempty" minimum:"0" doc:"Spectrometer frequency in MHz"`
		Mode              string  `json:"mode,omitempty" enum:"destructive,non_destructive,visual" doc:"Grouping mode"`
		IntegrationPolicy string  `json:"integration_policy,omitempty" enum:"absolute,relative" doc:"Integration estimation policy"`
		TotalProtons      float64 `json:"total_protons,omitempty" minimum:"0" doc:"Assumed total nucleus count for relative integration"`
	}
}

// AnalyzePeaksResponseBody is the body of the analyze response
type AnalyzePeaksResponseBody struct {
	Mode    string           `json:"mode" doc:"Grouping mode used"`
	Groups  []MultipletGroup `json:"groups" doc:"Multiplet groups, downfield first"`
	Peaks   []Peak           `json:"peaks" doc:"Annotated lines or aggregated peaks depending on mode"`
	Dropped int              `json:"dropped" doc:"Lines dropped for a non-numeric shift"`
	Skipped int              `json:"skipped" doc:"Text lines that could not be parsed"`
}

// AnalyzePeaksResponse represents the analyze result
type AnalyzePeaksResponse struct {
	Body AnalyzePeaksResponseBody
}

// CreateSpectrumRequest represents a request to simulate a spectrum
type CreateSpectrumRequest struct {
	Body struct {
		Title         string    `json:"title,omitempty" maxLength:"200" doc:"Session title"`
		Text          string    `json:"text,omitempty" maxLength:"200000" doc:"Peak list text; used when peaks is empty"`
		Peaks         []Peak    `json:"peaks,omitempty" doc:"Peak list to render"`
		Nucleus       string    `json:"nucleus,omitempty" example:"1H" doc:"Observed nucleus"`
		FieldStrength float64   `json:"field_strength,omitempty" minimum:"0" doc:"Spectrometer frequency in MHz"`
		PPMRange      *PPMRange `json:"ppm_range,omitempty" doc:"Display window; derived from the peaks when absent"`
		Resolution    int       `json:"resolution,omitempty" minimum:"0" doc:"Number of points on the ppm axis"`
		NoiseLevel    float64   `json:"noise_level,omitempty" minimum:"0" maximum:"1" doc:"Noise standard deviation as a fraction of the tallest point"`
		Seed          int64     `json:"seed,omitempty" doc:"Noise generator seed"`
		GroupingMode  string    `json:"grouping_mode,omitempty" enum:"none,destructive,non_destructive,visual" doc:"Optional multiplet analysis before rendering"`
	}
}

// SpectrumResponseBody carries a session and its rendered arrays
type SpectrumResponseBody struct {
	Session   *Session  `json:"session" doc:"Stored simulation session"`
	PPMAxis   []float64 `json:"ppm_axis" doc:"Chemical shift axis, high ppm first"`
	Intensity []float64 `json:"intensity" doc:"Rendered intensity at each axis point"`
}

// SpectrumResponse represents a rendered spectrum
type SpectrumResponse struct {
	Body SpectrumResponseBody
}

// GetSpectrumRequest represents a request to load a stored session
type GetSpectrumRequest struct {
	ID string `path:"id" doc:"Session ID"`
}

// UpdatePeaksRequest represents a request to replace a session's peaks
type UpdatePeaksRequest struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Peaks []Peak `json:"peaks" required:"true" doc:"Replacement peak list"`
	}
}

// CreateExportRequest represents a request to export a session
type CreateExportRequest struct {
	ID     string `path:"id" doc:"Session ID"`
	Format string `path:"format" enum:"csv,txt,peaks,json,report" doc:"Export format"`
}

// CreateExportResponseBody is the body of the export response
type CreateExportResponseBody struct {
	ID          string `json:"id" doc:"Export identifier"`
	Format      string `json:"format" doc:"Export format"`
	DownloadURL string `json:"download_url" doc:"Pre-signed URL for the exported file"`
	ExpiresIn   int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateExportResponse represents the export result
type CreateExportResponse struct {
	Body CreateExportResponseBody
}

// ListExportsRequest represents a request to list a session's exports
type ListExportsRequest struct {
	ID string `path:"id" doc:"Session ID"`
}

// ListExportsResponse lists export records for a session
type ListExportsResponse struct {
	Body struct {
		Exports []*ExportRecord `json:"exports" doc:"Exports, newest first"`
	}
}

// ListSpectraRequest represents a request to list recent sessions
type ListSpectraRequest struct {
	Limit int `query:"limit" minimum:"0" maximum:"200" default:"50" doc:"Maximum number of sessions"`
}

// ListSpectraResponse lists stored sessions without their arrays
type ListSpectraResponse struct {
	Body struct {
		Sessions []*Session `json:"sessions" doc:"Sessions, newest first"`
	}
}

// DeleteSpectrumRequest represents a request to delete a session
type DeleteSpectrumRequest struct {
	ID string `path:"id" doc:"Session ID"`
}
