package chain

import (
	"fmt"
	"strings"
	"sync"

	pkgerrors "ripapay/pkg/errors"
)

// Config describes a chain at registration time. DisplayName is required.
// Gateway may be nil for chains registered ahead of their capability
// being wired; such chains never resolve until a gateway is attached.
type Config struct {
	DisplayName string
	Enabled     bool
	Gateway     Gateway
}

// Adapter is a registered binding between a chain identifier and its
// gateway capability. Immutable after registration except for the
// enabled flag.
type Adapter struct {
	ChainID     string  `json:"chain_id"`
	DisplayName string  `json:"name"`
	Enabled     bool    `json:"enabled"`
	Gateway     Gateway `json:"-"`
}

// Registry is the in-memory chain mapping. Registrations are rare and
// reads frequent, so it is guarded by a single RWMutex. Chain IDs are
// case-sensitive and never reused; there is no deregistration, only
// enabled-flag toggling.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
	order    []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]*Adapter),
	}
}

// Register adds a chain. Registration is all-or-nothing: config
// validation failures leave the registry untouched, and an existing
// chainID fails with ErrChainAlreadyRegistered.
func (r *Registry) Register(chainID string, cfg Config) error {
	if strings.TrimSpace(chainID) == "" {
		return fmt.Errorf("%w: chain id is required", pkgerrors.ErrInvalidChainConfig)
	}
	if strings.TrimSpace(cfg.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", pkgerrors.ErrInvalidChainConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[chainID]; exists {
		return fmt.Errorf("%w: %s", pkgerrors.ErrChainAlreadyRegistered, chainID)
	}

	r.adapters[chainID] = &Adapter{
		ChainID:     chainID,
		DisplayName: cfg.DisplayName,
		Enabled:     cfg.Enabled,
		Gateway:     cfg.Gateway,
	}
	r.order = append(r.order, chainID)
	return nil
}

// Resolve returns the adapter for a chain. Absent, disabled, or
// capability-less chains fail with ErrUnsupportedChain.
func (r *Registry) Resolve(chainID string) (*Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedChain, chainID)
	}
	if !adapter.Enabled {
		return nil, fmt.Errorf("%w: %s is disabled", pkgerrors.ErrUnsupportedChain, chainID)
	}
	if adapter.Gateway == nil {
		return nil, fmt.Errorf("%w: %s has no gateway capability", pkgerrors.ErrUnsupportedChain, chainID)
	}

	snapshot := *adapter
	return &snapshot, nil
}

// List returns all registered adapters in insertion order, including
// disabled ones.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.adapters[id])
	}
	return out
}

// SetEnabled toggles a registered chain.
func (r *Registry) SetEnabled(chainID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	adapter, ok := r.adapters[chainID]
	if !ok {
		return fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedChain, chainID)
	}
	adapter.Enabled = enabled
	return nil
}
