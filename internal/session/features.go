package session

import (
	"context"
	"time"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/llm"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/similarity"
)

// AddFeature plans the next conventional feature idea. An empty buffer is
// not an error: ok is false and nothing is planned. Afterwards both buffers
// are topped up from the idea generator if they have run low.
func (s *Session) AddFeature(ctx context.Context) (name string, ok bool, err error) {
	name, ok, err = s.planNext(models.FeatureKindConventional)
	if err != nil {
		return "", false, err
	}
	s.refill(ctx, models.FeatureKindAI)
	s.refill(ctx, models.FeatureKindConventional)
	return name, ok, nil
}

// AddAIFeature plans the next AI feature idea, then tops up the AI buffer.
func (s *Session) AddAIFeature(ctx context.Context) (name string, ok bool, err error) {
	name, ok, err = s.planNext(models.FeatureKindAI)
	if err != nil {
		return "", false, err
	}
	s.refill(ctx, models.FeatureKindAI)
	return name, ok, nil
}

// AddFeatureOfKind dispatches to AddFeature or AddAIFeature.
func (s *Session) AddFeatureOfKind(ctx context.Context, kind models.FeatureKind) (string, bool, error) {
	if kind == models.FeatureKindAI {
		return s.AddAIFeature(ctx)
	}
	return s.AddFeature(ctx)
}

// Buffered returns a copy of the ideas waiting in the buffer for kind.
func (s *Session) Buffered(kind models.FeatureKind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.buffers[kind]...)
}

// planNext pops the front of the buffer for kind and queues it for
// development on the primary service.
func (s *Session) planNext(kind models.FeatureKind) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.company == nil {
		return "", false, ErrNotOnboarded
	}

	buf := s.buffers[kind]
	if len(buf) == 0 {
		return "", false, nil
	}
	name := buf[0]
	s.buffers[kind] = buf[1:]

	svc := s.company.PrimaryService()
	svc.PlanFeature(models.NewFeature(name, s.cfg.featureTemplate(kind)))

	s.logger.Debug("feature planned", "feature", name, "kind", kind, "planned", len(svc.PlannedFeatures))
	s.trace.Event("plan_feature", s.runID, map[string]any{
		"feature": name,
		"kind":    string(kind),
		"date":    s.world.CurrentTime.Format(time.DateOnly),
	})

	return name, true, nil
}

// refill asks the idea generator for more features of kind when that
// buffer has fallen below the low-water mark. The generator is called
// without holding the lock; its suggestions are filtered against the
// names known when they arrive. Failures are logged and otherwise ignored.
func (s *Session) refill(ctx context.Context, kind models.FeatureKind) {
	s.mu.Lock()
	if s.company == nil || s.refilling[kind] || len(s.buffers[kind]) >= constants.FeatureBufferLowWater {
		s.mu.Unlock()
		return
	}
	s.refilling[kind] = true
	generation := s.generation
	details := llm.ServiceDetails{
		CompanyName:        s.idea.CompanyName,
		ServiceName:        s.idea.ServiceName,
		ServiceDescription: s.idea.ServiceDescription,
		Features:           s.knownNamesLocked(),
	}
	s.mu.Unlock()

	suggestions, err := s.gen.SuggestFeatures(ctx, details, kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refilling[kind] = false

	if err != nil {
		s.logger.Warn("feature suggestion failed", "kind", kind, "error", err)
		return
	}
	if generation != s.generation {
		s.logger.Debug("discarding suggestions for a replaced company", "kind", kind)
		return
	}

	novel := similarity.FilterNovel(suggestions, s.knownNamesLocked(), constants.DuplicateFeatureThreshold)
	s.buffers[kind] = append(s.buffers[kind], novel...)

	s.logger.Debug("feature buffer refilled",
		"kind", kind, "suggested", len(suggestions), "added", len(novel), "buffered", len(s.buffers[kind]))
}

// knownNamesLocked lists active, planned and buffered feature names.
func (s *Session) knownNamesLocked() []string {
	names := s.company.PrimaryService().AllFeatureNames()
	names = append(names, s.buffers[models.FeatureKindConventional]...)
	return append(names, s.buffers[models.FeatureKindAI]...)
}
