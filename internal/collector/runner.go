package collector

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"netcollector/internal/repository"
)

// Summary reports the outcome of one collection run.
type Summary struct {
	RunID     string
	Succeeded []string
	Failed    []string
}

// OK reports whether every registered collector completed.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0
}

// String renders a one-line human-readable result.
func (s *Summary) String() string {
	if s.OK() {
		return fmt.Sprintf("run %s: %d collector(s) completed successfully", s.RunID, len(s.Succeeded))
	}
	return fmt.Sprintf("run %s: %d collector(s) completed, %d failed: %v",
		s.RunID, len(s.Succeeded), len(s.Failed), s.Failed)
}

// Runner drives registered collectors through the contract lifecycle.
type Runner struct {
	store      repository.Store
	collectors map[string]Collector
}

// NewRunner creates a runner writing through the given store.
func NewRunner(store repository.Store) *Runner {
	return &Runner{
		store:      store,
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector. The source name must be unique.
func (r *Runner) Register(c Collector) error {
	name := c.Source().Name
	if name == "" {
		return fmt.Errorf("collector has no source name")
	}
	if _, exists := r.collectors[name]; exists {
		return fmt.Errorf("collector %s already registered", name)
	}
	r.collectors[name] = c
	return nil
}

// Run executes every registered collector once, in name order, and
// returns the per-collector outcome. A failing collector is logged and
// skipped; the remaining collectors still run.
func (r *Runner) Run(ctx context.Context) *Summary {
	summary := &Summary{RunID: uuid.New().String()}

	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)

	log.Printf("Collection run %s starting (%d collectors)", summary.RunID, len(names))

	for _, name := range names {
		if err := r.runOne(ctx, summary.RunID, r.collectors[name]); err != nil {
			log.Printf("Collector %s failed: %v", name, err)
			summary.Failed = append(summary.Failed, name)
			continue
		}
		log.Printf("Collector %s completed", name)
		summary.Succeeded = append(summary.Succeeded, name)
	}

	log.Print(summary.String())
	return summary
}

// runOne takes one collector through initialize, collect, shutdown.
// Shutdown runs on every exit path.
func (r *Runner) runOne(ctx context.Context, runID string, c Collector) error {
	defer func() {
		if err := c.Shutdown(); err != nil {
			log.Printf("Collector %s shutdown: %v", c.Source().Name, err)
		}
	}()

	src := c.Source()
	sourceID, err := r.store.UpsertDataSource(ctx, &src)
	if err != nil {
		return fmt.Errorf("initialize data source: %w", err)
	}

	return c.Collect(ctx, &Run{
		id:       runID,
		sourceID: sourceID,
		store:    r.store,
	})
}
