// Package session holds the state of one interactive simulation: the world,
// the onboarded company, and the queues of feature ideas waiting to be
// planned. It drives the world on a timer and records every tick.
//
// All public methods are safe for concurrent use. One mutex guards every
// access to simulation state and is held across each whole simulated day.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/imagegen"
	"github.com/nvandessel/corpsim/internal/llm"
	"github.com/nvandessel/corpsim/internal/logging"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/sanitize"
	"github.com/nvandessel/corpsim/internal/store"
	"github.com/nvandessel/corpsim/internal/valuation"
	"github.com/nvandessel/corpsim/internal/world"
)

var (
	// ErrNotOnboarded is returned by operations that need a company before
	// one has been onboarded.
	ErrNotOnboarded = errors.New("no company onboarded")

	// ErrAlreadyRunning is returned when Run is called while the driver is active.
	ErrAlreadyRunning = errors.New("simulation driver already running")

	// ErrNoImageGenerator is returned by Logo when no image generator is configured.
	ErrNoImageGenerator = errors.New("no image generator configured")
)

// Config holds the templates and valuation settings of a session.
type Config struct {
	Company             models.CompanyTemplate
	Service             models.ServiceTemplate
	ConventionalFeature models.FeatureTemplate
	AIFeature           models.FeatureTemplate

	// Start is the date every onboarded world starts at.
	Start time.Time

	// Market and PERatio parameterize the displayed valuation.
	Market  valuation.MarketCondition
	PERatio float64
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Company:             models.DefaultCompanyTemplate(),
		Service:             models.DefaultServiceTemplate(),
		ConventionalFeature: models.ConventionalFeatureTemplate(),
		AIFeature:           models.AIFeatureTemplate(),
		Start:               constants.SimulationEpoch,
		Market:              valuation.MarketGrowing,
		PERatio:             constants.DefaultPERatio,
	}
}

func (c Config) featureTemplate(kind models.FeatureKind) models.FeatureTemplate {
	if kind == models.FeatureKindAI {
		return c.AIFeature
	}
	return c.ConventionalFeature
}

// Option configures optional collaborators of a Session.
type Option func(*Session)

// WithJournal records every run and tick in j.
func WithJournal(j store.Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithDayTrace writes every tick to dt.
func WithDayTrace(dt *logging.DayTrace) Option {
	return func(s *Session) { s.trace = dt }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithImageGenerator enables Logo.
func WithImageGenerator(g imagegen.Generator) Option {
	return func(s *Session) { s.images = g }
}

// Session is one interactive simulation.
type Session struct {
	mu sync.Mutex

	cfg     Config
	gen     llm.Client
	images  imagegen.Generator
	journal store.Journal
	trace   *logging.DayTrace
	logger  *slog.Logger

	world   *world.World
	company *models.Company
	idea    *llm.CompanyIdea
	runID   string

	// generation increments on every onboarding so that suggestions
	// requested for a previous company are discarded.
	generation int
	buffers    map[models.FeatureKind][]string
	refilling  map[models.FeatureKind]bool
	last       *world.DayReport
	running    bool
}

// New creates a session that asks gen for ideas.
func New(cfg Config, gen llm.Client, opts ...Option) *Session {
	s := &Session{
		cfg:       cfg,
		gen:       gen,
		buffers:   make(map[models.FeatureKind][]string),
		refilling: make(map[models.FeatureKind]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// Onboard asks the idea generator for a company inspired by topic and
// starts a fresh simulation of it.
func (s *Session) Onboard(ctx context.Context, topic string) (*Status, error) {
	idea, err := s.gen.GenerateCompany(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("generating company: %w", err)
	}
	return s.onboard(ctx, topic, idea)
}

// OnboardIdea starts a fresh simulation of an already generated idea. The
// previous world, company and feature buffers are discarded.
func (s *Session) OnboardIdea(ctx context.Context, idea *llm.CompanyIdea) (*Status, error) {
	return s.onboard(ctx, "", idea)
}

func (s *Session) onboard(ctx context.Context, topic string, idea *llm.CompanyIdea) (*Status, error) {
	if idea == nil {
		return nil, fmt.Errorf("onboarding: no company idea")
	}

	clean := llm.CompanyIdea{
		CompanyName:        sanitize.Name(idea.CompanyName),
		ServiceName:        sanitize.Name(idea.ServiceName),
		ServiceDescription: sanitize.Description(idea.ServiceDescription),
		Features:           sanitize.Names(idea.Features),
	}
	if clean.CompanyName == "" || clean.ServiceName == "" {
		return nil, fmt.Errorf("onboarding: company and service names are required")
	}

	svc := models.NewService(clean.ServiceName, s.cfg.Service)
	company := models.NewCompanyFromTemplate(clean.CompanyName, s.cfg.Company, svc)
	w := world.NewAt(s.cfg.Start)
	w.AddCompany(company)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.world = w
	s.company = company
	s.idea = &clean
	s.generation++
	s.last = nil
	s.buffers = map[models.FeatureKind][]string{
		models.FeatureKindConventional: append([]string(nil), clean.Features...),
		models.FeatureKindAI:           nil,
	}
	s.runID = s.startRun(ctx, topic)

	s.logger.Info("company onboarded",
		"company", company.Name, "service", svc.Name, "features", len(clean.Features), "run", s.runID)
	s.trace.Event("onboard", s.runID, map[string]any{
		"topic":    topic,
		"company":  company.Name,
		"service":  svc.Name,
		"features": clean.Features,
	})

	return s.statusLocked(), nil
}

// startRun opens a journal run for the current company. Journal failures
// are logged and leave the session unjournaled; they never stop a simulation.
func (s *Session) startRun(ctx context.Context, topic string) string {
	if s.journal == nil {
		return ""
	}
	run := store.Run{
		ID:          uuid.NewString(),
		CompanyID:   s.company.ID,
		CompanyName: s.company.Name,
		ServiceName: s.idea.ServiceName,
		Topic:       topic,
		StartDate:   s.world.CurrentTime,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.journal.StartRun(ctx, run); err != nil {
		s.logger.Warn("journal: starting run failed", "error", err)
		return ""
	}
	return run.ID
}

// Onboarded reports whether a company has been onboarded.
func (s *Session) Onboarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company != nil
}

// Idea returns a copy of the onboarded idea.
func (s *Session) Idea() (llm.CompanyIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idea == nil {
		return llm.CompanyIdea{}, ErrNotOnboarded
	}
	idea := *s.idea
	idea.Features = append([]string(nil), s.idea.Features...)
	return idea, nil
}
