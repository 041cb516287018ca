package provision

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Paintersrp/warden/internal/config"
)

// Factory constructs a provisioner for a worker.
type Factory func(workerID string, spec *config.Spec) Provisioner

type factoryEntry struct {
	name    string
	factory Factory
}

var (
	registryMu sync.RWMutex
	factories  []factoryEntry
)

// Register associates the provided factory with the provisioner name. When
// multiple factories register the same name the most recent registration
// wins.
func Register(name string, factory Factory) {
	if name == "" {
		panic("provision.Register: name must not be empty")
	}
	if factory == nil {
		panic("provision.Register: factory must not be nil")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	for i, entry := range factories {
		if entry.name == name {
			factories[i].factory = factory
			return
		}
	}

	factories = append(factories, factoryEntry{name: name, factory: factory})
}

// New instantiates the named provisioner for the given worker spec. An empty
// name selects the spec's provisioner, falling back to "local". An empty
// workerID gets a generated identifier.
func New(name, workerID string, spec *config.Spec) (Provisioner, error) {
	if name == "" && spec != nil {
		name = spec.Provisioner
	}
	if name == "" {
		name = "local"
	}
	if workerID == "" {
		workerID = uuid.NewString()
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, entry := range factories {
		if entry.name == name {
			return entry.factory(workerID, spec), nil
		}
	}
	return nil, fmt.Errorf("provisioner %q has not been registered", name)
}
