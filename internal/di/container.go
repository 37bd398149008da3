// Package di wires the node together: configuration, stores, the ledger
// service and the RPC surface.
package di

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrServiceNotFound is returned for a name with no instance or builder
	ErrServiceNotFound = errors.New("service not found")

	// ErrDependencyCycle is returned when a builder needs, directly or not,
	// the service it is building
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrServiceType is returned by Resolve when the instance has another type
	ErrServiceType = errors.New("unexpected service type")
)

// Builder creates a service on first use. It resolves its own
// dependencies through c.
type Builder func(c *Container) (interface{}, error)

type registry struct {
	mu       sync.RWMutex
	services map[string]interface{}
	builders map[string]Builder
}

// Container resolves services by name. The value handed to a builder is a
// view of the same container that remembers the chain being built.
type Container struct {
	reg   *registry
	chain []string
}

// New creates an empty container.
func New() *Container {
	return &Container{reg: &registry{
		services: make(map[string]interface{}),
		builders: make(map[string]Builder),
	}}
}

// Register stores a ready instance.
func (c *Container) Register(name string, service interface{}) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	c.reg.services[name] = service
}

// RegisterBuilder registers a builder for lazy instantiation.
func (c *Container) RegisterBuilder(name string, builder Builder) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	c.reg.builders[name] = builder
}

// Get returns the instance for name, building it on first use. The
// builder runs without the container lock held. If two callers build the
// same service concurrently the first stored instance wins.
func (c *Container) Get(name string) (interface{}, error) {
	c.reg.mu.RLock()
	service, exists := c.reg.services[name]
	builder, hasBuilder := c.reg.builders[name]
	c.reg.mu.RUnlock()

	if exists {
		return service, nil
	}
	if !hasBuilder {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	for _, n := range c.chain {
		if n == name {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, strings.Join(c.chain, " -> "), name)
		}
	}

	chain := append(append(make([]string, 0, len(c.chain)+1), c.chain...), name)
	service, err := builder(&Container{reg: c.reg, chain: chain})
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}

	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	if existing, ok := c.reg.services[name]; ok {
		return existing, nil
	}
	c.reg.services[name] = service
	return service, nil
}

// Resolve is Get with the result asserted to T.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrServiceType, name, v, zero)
	}
	return t, nil
}

// Has reports whether name has an instance or a builder.
func (c *Container) Has(name string) bool {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	if _, ok := c.reg.services[name]; ok {
		return true
	}
	_, ok := c.reg.builders[name]
	return ok
}

// ServiceNames returns every registered name, sorted.
func (c *Container) ServiceNames() []string {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()

	seen := make(map[string]struct{}, len(c.reg.builders))
	for name := range c.reg.services {
		seen[name] = struct{}{}
	}
	for name := range c.reg.builders {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Service names constants for type-safe access.
const (
	ServiceConfig       = "config"
	ServiceMetrics      = "metrics"
	ServiceNodeStore    = "nodestore"
	ServiceAccountStore = "accountstore"
	ServiceRelationalDB = "relationaldb"
	ServiceLedger       = "ledger"
	ServiceRPCServer    = "rpc.server"
)
