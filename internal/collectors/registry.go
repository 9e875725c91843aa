package collectors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yairfalse/driftcatch/internal/logger"
	"github.com/yairfalse/driftcatch/pkg/types"
)

type CollectorRegistry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
}

func NewRegistry() *CollectorRegistry {
	return &CollectorRegistry{
		collectors: make(map[string]Collector),
	}
}

var (
	defaultRegistry     *CollectorRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide collector registry
func DefaultRegistry() *CollectorRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *CollectorRegistry) Register(collector Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[collector.Name()] = collector
}

// List returns the registered collector names in sorted order
func (r *CollectorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (r *CollectorRegistry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collector, exists := r.collectors[name]
	return collector, exists
}

// Collect validates the config and runs the collector registered for its format
func (r *CollectorRegistry) Collect(ctx context.Context, config Config) (*types.Snapshot, error) {
	collector, ok := r.Get(config.Format)
	if !ok {
		return nil, fmt.Errorf("no collector registered for format %q (available: %s)",
			config.Format, strings.Join(r.List(), ", "))
	}
	if status := collector.Status(); status != StatusReady {
		return nil, fmt.Errorf("collector %s is not ready: %s", collector.Name(), status)
	}
	if err := collector.Validate(config); err != nil {
		return nil, err
	}

	log := logger.Default().WithFields(map[string]interface{}{
		"collector": collector.Name(),
		"source":    config.SourceName(),
	})
	log.Debug("collecting schema")

	snapshot, err := collector.Collect(ctx, config)
	if err != nil {
		log.WithField("error", err.Error()).Debug("collection failed")
		return nil, err
	}
	log.WithField("columns", snapshot.ColumnCount()).Debug("schema collected")
	return snapshot, nil
}
