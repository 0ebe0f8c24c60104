package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/nmrsim/internal/config"
	"github.com/RMahshie/nmrsim/internal/export"
	"github.com/RMahshie/nmrsim/internal/multiplet"
	"github.com/RMahshie/nmrsim/internal/parser"
	"github.com/RMahshie/nmrsim/internal/repository"
	"github.com/RMahshie/nmrsim/internal/storage"
	"github.com/RMahshie/nmrsim/internal/synth"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// ErrInvalidInput marks errors caused by the caller's parameters
var ErrInvalidInput = errors.New("invalid input")

// GroupingNone skips multiplet analysis before rendering
const GroupingNone = "none"

// autoMargin (ppm) is kept between the outermost peaks and an automatic range
const autoMargin = 1.0

// Options holds the service-wide defaults
type Options struct {
	FieldStrength     float64
	Resolution        int
	MaxResolution     int
	GroupingMode      string
	IntegrationPolicy multiplet.IntegrationPolicy
	TotalProtons      float64
	AromaticWindow    float64
	AliphaticWindow   float64
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		FieldStrength:     parser.DefaultFieldStrength,
		Resolution:        8192,
		MaxResolution:     16384,
		GroupingMode:      "visual",
		IntegrationPolicy: multiplet.RelativeScale,
		TotalProtons:      15,
		AromaticWindow:    0.05,
		AliphaticWindow:   0.1,
	}
}

// OptionsFromConfig converts the simulation section of the configuration
func OptionsFromConfig(cfg config.SimulationConfig) (Options, error) {
	policy, err := multiplet.ParseIntegrationPolicy(cfg.IntegrationPolicy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		FieldStrength:     cfg.FieldStrength,
		Resolution:        cfg.Resolution,
		MaxResolution:     cfg.MaxResolution,
		GroupingMode:      cfg.GroupingMode,
		IntegrationPolicy: policy,
		TotalProtons:      cfg.TotalProtons,
		AromaticWindow:    cfg.AromaticWindow,
		AliphaticWindow:   cfg.AliphaticWindow,
	}, nil
}

// ParseInput is a block of peak text to read
type ParseInput struct {
	Text          string
	Nucleus       models.Nucleus
	FieldStrength float64
}

// AnalyzeInput is a line list, given as text or peaks, to group
type AnalyzeInput struct {
	Text              string
	Peaks             []models.Peak
	Nucleus           models.Nucleus
	FieldStrength     float64
	Mode              string
	IntegrationPolicy string
	TotalProtons      float64
}

// AnalysisResult is a multiplet analysis plus the count of unreadable lines
type AnalysisResult struct {
	*multiplet.Result
	Skipped int
}

// SimulationInput describes one simulation request
type SimulationInput struct {
	Title         string
	Text          string
	Peaks         []models.Peak
	Nucleus       models.Nucleus
	FieldStrength float64
	PPMRange      *models.PPMRange
	Resolution    int
	NoiseLevel    float64
	Seed          int64
	GroupingMode  string
}

// SimulationResult is a stored session with its rendered arrays
type SimulationResult struct {
	Session   *models.Session
	Axis      []float64
	Intensity []float64
}

// ExportResult points at an uploaded export
type ExportResult struct {
	Record      *models.ExportRecord
	DownloadURL string
	ExpiresIn   time.Duration
}

// SimulationService runs the parse, group, render and persist pipeline
type SimulationService interface {
	Parse(ctx context.Context, in ParseInput) parser.Result
	Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisResult, error)
	Simulate(ctx context.Context, in SimulationInput) (*SimulationResult, error)
	GetSession(ctx context.Context, id string) (*SimulationResult, error)
	ListSessions(ctx context.Context, limit int) ([]*models.Session, error)
	UpdatePeaks(ctx context.Context, id string, peaks []models.Peak) (*SimulationResult, error)
	DeleteSession(ctx context.Context, id string) error
	Export(ctx context.Context, id string, format export.Format) (*ExportResult, error)
	ListExports(ctx context.Context, id string) ([]*models.ExportRecord, error)
}

type simulationService struct {
	repository repository.Store
	store      storage.ExportStore
	opts       Options
}

// NewSimulationService wires the pipeline. store may be nil when exports
// are not needed, as in the command line tool.
func NewSimulationService(repo repository.Store, store storage.ExportStore, opts Options) SimulationService {
	def := DefaultOptions()
	if opts.FieldStrength <= 0 {
		opts.FieldStrength = def.FieldStrength
	}
	if opts.Resolution <= 0 {
		opts.Resolution = def.Resolution
	}
	if opts.MaxResolution < opts.Resolution {
		opts.MaxResolution = opts.Resolution
	}
	if opts.GroupingMode == "" {
		opts.GroupingMode = def.GroupingMode
	}
	return &simulationService{repository: repo, store: store, opts: opts}
}

func (s *simulationService) Parse(ctx context.Context, in ParseInput) parser.Result {
	field := in.FieldStrength
	if field <= 0 {
		field = s.opts.FieldStrength
	}
	res := parser.NewTextParser(parser.WithFieldStrength(field)).Parse(in.Text, nucleusOrDefault(in.Nucleus))
	if res.Skipped > 0 {
		log.Debug().Int("peaks", len(res.Peaks)).Int("skipped", res.Skipped).Msg("Parsed peak text with skipped lines")
	}
	return res
}

func (s *simulationService) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisResult, error) {
	mode, err := multiplet.ParseMode(in.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	cfg := s.analyzerConfig(in.Nucleus, in.FieldStrength)
	if in.IntegrationPolicy != "" {
		if cfg.IntegrationPolicy, err = multiplet.ParseIntegrationPolicy(in.IntegrationPolicy); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	if in.TotalProtons > 0 {
		cfg.TotalProtons = in.TotalProtons
	}

	lines, skipped := s.collectPeaks(ctx, in.Text, in.Peaks, cfg.Nucleus, cfg.FieldStrength)
	res := multiplet.NewAnalyzer(cfg).Analyze(lines, mode)

	log.Info().
		Str("mode", mode.String()).
		Int("lines", len(lines)).
		Int("groups", len(res.Groups)).
		Int("skipped", skipped).
		Msg("Analyzed multiplets")

	return &AnalysisResult{Result: res, Skipped: skipped}, nil
}

func (s *simulationService) Simulate(ctx context.Context, in SimulationInput) (*SimulationResult, error) {
	nucleus := nucleusOrDefault(in.Nucleus)

	field := in.FieldStrength
	if field == 0 {
		field = s.opts.FieldStrength
	}
	if !(field > 0) {
		return nil, fmt.Errorf("%w: %w: %g", ErrInvalidInput, synth.ErrInvalidFieldStrength, field)
	}

	resolution, err := s.resolution(in.Resolution)
	if err != nil {
		return nil, err
	}
	if in.NoiseLevel < 0 || math.IsNaN(in.NoiseLevel) {
		return nil, fmt.Errorf("%w: noise level must not be negative", ErrInvalidInput)
	}

	peaks, skipped := s.collectPeaks(ctx, in.Text, in.Peaks, nucleus, field)

	grouping := in.GroupingMode
	if grouping == "" {
		grouping = s.opts.GroupingMode
	}
	if grouping != GroupingNone {
		mode, err := multiplet.ParseMode(grouping)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		peaks = multiplet.NewAnalyzer(s.analyzerConfig(nucleus, field)).Analyze(peaks, mode).Peaks
	}

	ppmRange := AutoRange(nucleus, peaks)
	if in.PPMRange != nil {
		ppmRange = *in.PPMRange
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:            uuid.New().String(),
		Title:         in.Title,
		Nucleus:       nucleus,
		FieldStrength: field,
		PPMRange:      ppmRange,
		Resolution:    resolution,
		NoiseLevel:    in.NoiseLevel,
		Seed:          in.Seed,
		GroupingMode:  grouping,
		SourceText:    in.Text,
		SkippedLines:  skipped,
		Peaks:         peaks,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	axis, intensity, err := render(session)
	if err != nil {
		return nil, err
	}

	if s.repository != nil {
		if err := s.repository.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	log.Info().
		Str("sessionID", session.ID).
		Str("nucleus", string(nucleus)).
		Int("peaks", len(peaks)).
		Int("skipped", skipped).
		Int("resolution", resolution).
		Str("grouping", grouping).
		Msg("Simulated spectrum")

	return &SimulationResult{Session: session, Axis: axis, Intensity: intensity}, nil
}

func (s *simulationService) GetSession(ctx context.Context, id string) (*SimulationResult, error) {
	session, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	axis, intensity, err := render(session)
	if err != nil {
		return nil, err
	}
	return &SimulationResult{Session: session, Axis: axis, Intensity: intensity}, nil
}

func (s *simulationService) ListSessions(ctx context.Context, limit int) ([]*models.Session, error) {
	return s.repository.List(ctx, limit)
}

func (s *simulationService) UpdatePeaks(ctx context.Context, id string, peaks []models.Peak) (*SimulationResult, error) {
	normalized := models.ClonePeaks(peaks)
	for i := range normalized {
		normalized[i].Normalize()
	}

	if err := s.repository.UpdatePeaks(ctx, id, normalized); err != nil {
		return nil, err
	}

	log.Info().Str("sessionID", id).Int("peaks", len(normalized)).Msg("Replaced session peaks")
	return s.GetSession(ctx, id)
}

func (s *simulationService) DeleteSession(ctx context.Context, id string) error {
	records, err := s.repository.ListExports(ctx, id)
	if err != nil {
		return err
	}
	if s.store != nil {
		for _, rec := range records {
			if err := s.store.Delete(ctx, rec.ObjectKey); err != nil {
				log.Warn().Err(err).Str("key", rec.ObjectKey).Msg("Failed to delete export object")
			}
		}
	}
	return s.repository.Delete(ctx, id)
}

func (s *simulationService) Export(ctx context.Context, id string, format export.Format) (*ExportResult, error) {
	if s.store == nil {
		return nil, errors.New("no export store configured")
	}

	res, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.FromSession(res.Session, res.Axis, res.Intensity)); err != nil {
		return nil, fmt.Errorf("failed to write %s export: %w", format, err)
	}

	record := &models.ExportRecord{
		ID:          uuid.New().String(),
		SessionID:   id,
		Format:      string(format),
		ContentType: format.ContentType(),
		SizeBytes:   int64(buf.Len()),
		CreatedAt:   time.Now().UTC(),
	}
	record.ObjectKey = fmt.Sprintf("exports/%s/%s.%s", id, record.ID, format.Extension())

	if err := s.store.Upload(ctx, record.ObjectKey, record.ContentType, buf.Bytes()); err != nil {
		return nil, err
	}
	if err := s.repository.StoreExport(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record export: %w", err)
	}

	url, err := s.store.GenerateDownloadURL(ctx, record.ObjectKey)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sessionID", id).
		Str("format", string(format)).
		Int64("bytes", record.SizeBytes).
		Msg("Exported session")

	return &ExportResult{Record: record, DownloadURL: url, ExpiresIn: storage.DownloadURLExpiry}, nil
}

func (s *simulationService) ListExports(ctx context.Context, id string) ([]*models.ExportRecord, error) {
	if _, err := s.repository.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repository.ListExports(ctx, id)
}

// collectPeaks parses text, if any, and appends explicitly given peaks
func (s *simulationService) collectPeaks(ctx context.Context, text string, given []models.Peak, nucleus models.Nucleus, field float64) ([]models.Peak, int) {
	var peaks []models.Peak
	skipped := 0
	if text != "" {
		res := s.Parse(ctx, ParseInput{Text: text, Nucleus: nucleus, FieldStrength: field})
		peaks = res.Peaks
		skipped = res.Skipped
	}
	for _, p := range given {
		p = p.Clone()
		p.Normalize()
		peaks = append(peaks, p)
	}
	if peaks == nil {
		peaks = []models.Peak{}
	}
	return peaks, skipped
}

func (s *simulationService) analyzerConfig(nucleus models.Nucleus, field float64) multiplet.Config {
	cfg := multiplet.DefaultConfig()
	cfg.Nucleus = nucleusOrDefault(nucleus)
	cfg.FieldStrength = s.opts.FieldStrength
	if field > 0 {
		cfg.FieldStrength = field
	}
	cfg.IntegrationPolicy = s.opts.IntegrationPolicy
	if s.opts.TotalProtons > 0 {
		cfg.TotalProtons = s.opts.TotalProtons
	}
	if s.opts.AromaticWindow > 0 {
		cfg.AromaticWindow = s.opts.AromaticWindow
	}
	if s.opts.AliphaticWindow > 0 {
		cfg.AliphaticWindow = s.opts.AliphaticWindow
	}
	return cfg
}

// resolution applies the default and clamps to the configured ceiling
func (s *simulationService) resolution(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: %w: %d", ErrInvalidInput, synth.ErrInvalidResolution, requested)
	case requested == 0:
		return s.opts.Resolution, nil
	case requested > s.opts.MaxResolution:
		log.Debug().Int("requested", requested).Int("max", s.opts.MaxResolution).Msg("Clamping resolution")
		return s.opts.MaxResolution, nil
	}
	return requested, nil
}

// AutoRange returns the nucleus default window, widened where needed so every
// peak sits at least autoMargin inside it
func AutoRange(nucleus models.Nucleus, peaks []models.Peak) models.PPMRange {
	r := models.DefaultPPMRange(nucleus)
	for _, p := range peaks {
		if math.IsNaN(p.ChemicalShift) || math.IsInf(p.ChemicalShift, 0) {
			continue
		}
		r.Min = math.Min(r.Min, p.ChemicalShift-autoMargin)
		r.Max = math.Max(r.Max, p.ChemicalShift+autoMargin)
	}
	return r
}

// render regenerates a session's arrays. The noise source is seeded from the
// session so a reload reproduces the stored spectrum exactly.
func render(session *models.Session) ([]float64, []float64, error) {
	spectrum := session.Spectrum()
	renderer := synth.Synthesizer{
		NoiseLevel: session.NoiseLevel,
		RNG:        rand.New(rand.NewSource(session.Seed)),
	}
	if err := spectrum.Regenerate(renderer, session.Resolution); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	axis, intensity, _ := spectrum.Derived()
	return axis, intensity, nil
}

func nucleusOrDefault(n models.Nucleus) models.Nucleus {
	if n == "" {
		return models.Proton
	}
	return n
}
