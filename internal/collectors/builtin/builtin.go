// Package builtin registers the collectors shipped with driftcatch.
package builtin

import (
	"github.com/yairfalse/driftcatch/internal/collectors"
	"github.com/yairfalse/driftcatch/internal/collectors/csv"
	"github.com/yairfalse/driftcatch/internal/collectors/json"
)

// Register adds every built-in collector to registry
func Register(registry *collectors.CollectorRegistry) {
	registry.Register(csv.NewCollector())
	registry.Register(json.NewCollector())
}

// NewRegistry returns a registry holding the built-in collectors
func NewRegistry() *collectors.CollectorRegistry {
	registry := collectors.NewRegistry()
	Register(registry)
	return registry
}

// init registers the built-in collectors when the package is imported
func init() {
	Register(collectors.DefaultRegistry())
}
