// internal/platform/registry/invoker_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/platform/logx"
)

// InvokerRegistry manages registration and construction of analysis
// invokers. Registry + factory keeps invoker creation decoupled from the
// application wiring; each invoker package registers itself from init().
type InvokerRegistry struct {
	mu        sync.RWMutex
	factories map[string]InvokerFactory
	metadata  map[string]ports.InvokerMetadata
	logger    logx.Logger
}

// Deps carries the shared collaborators an invoker factory may need.
type Deps struct {
	// Logger shared logger
	Logger logx.Logger

	// Toolchain the resolved active toolchain (interpreted invoker)
	Toolchain domain.ToolchainIdentity

	// Classifier suppression lookup (instrumented invoker)
	Classifier ports.Classifier
}

// InvokerFactory creates an Invoker instance from its configuration.
type InvokerFactory func(cfg ports.InvokerConfig, deps Deps) (ports.Invoker, error)

// globalRegistry is the process-wide registry instance.
var globalRegistry *InvokerRegistry
var once sync.Once

// Global returns the process-wide registry instance.
func Global() *InvokerRegistry {
	once.Do(func() {
		globalRegistry = NewInvokerRegistry(logx.New())
	})
	return globalRegistry
}

// NewInvokerRegistry creates a new invoker registry.
func NewInvokerRegistry(logger logx.Logger) *InvokerRegistry {
	return &InvokerRegistry{
		factories: make(map[string]InvokerFactory),
		metadata:  make(map[string]ports.InvokerMetadata),
		logger:    logger.With("component", "invoker-registry"),
	}
}

// Register registers an invoker factory with its metadata.
// Typically called from init() of each invoker package.
func (r *InvokerRegistry) Register(name string, factory InvokerFactory, meta ports.InvokerMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("invoker name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for invoker %s", name)
	}
	if !meta.Mode.IsValid() {
		return fmt.Errorf("invoker %s declares unknown analysis mode %q", name, meta.Mode)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("invoker %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("invoker registered", "name", name, "mode", meta.Mode)

	return nil
}

// Build constructs every enabled invoker, keyed by its analysis mode.
// Exactly one invoker may serve each mode; a second registration for the
// same mode is a wiring mistake and fails the build.
func (r *InvokerRegistry) Build(configs map[string]ports.InvokerConfig, deps Deps) (map[domain.AnalysisMode]ports.Invoker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// Deterministic construction order
	names := make([]string, 0, len(configs))
	for name, cfg := range configs {
		if cfg.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	invokers := make(map[domain.AnalysisMode]ports.Invoker, len(names))
	for _, name := range names {
		factory, exists := r.factories[name]
		if !exists {
			return nil, fmt.Errorf("invoker %s not registered in registry", name)
		}

		meta := r.metadata[name]
		if _, taken := invokers[meta.Mode]; taken {
			return nil, fmt.Errorf("analysis mode %s already served by another invoker", meta.Mode)
		}

		invoker, err := factory(configs[name], deps)
		if err != nil {
			return nil, fmt.Errorf("failed to build invoker %s: %w", name, err)
		}

		invokers[meta.Mode] = invoker
		r.logger.Debug("invoker built", "name", name, "mode", meta.Mode)
	}

	if len(invokers) == 0 && len(configs) > 0 {
		return nil, fmt.Errorf("no invokers could be built")
	}

	deps.Logger.Info("invokers built", "count", len(invokers), "requested", len(configs))
	return invokers, nil
}

// List returns the names of all registered invokers.
func (r *InvokerRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata returns the metadata of a registered invoker.
func (r *InvokerRegistry) GetMetadata(name string) (ports.InvokerMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// IsRegistered reports whether an invoker is registered.
func (r *InvokerRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear removes all registered invokers (for testing).
func (r *InvokerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]InvokerFactory)
	r.metadata = make(map[string]ports.InvokerMetadata)
}
