package registry

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/rwa-id-gateway/interfaces"
)

// InstrumentedNameRegistry reports the duration and outcome of every call made
// through the wrapped registry.
type InstrumentedNameRegistry struct {
	next     interfaces.NameRegistry
	observer interfaces.RegistryObserver
}

// NewInstrumentedNameRegistry wraps next, reporting calls to observer.
func NewInstrumentedNameRegistry(next interfaces.NameRegistry, observer interfaces.RegistryObserver) *InstrumentedNameRegistry {
	return &InstrumentedNameRegistry{next: next, observer: observer}
}

func (r *InstrumentedNameRegistry) observe(method string, start time.Time, err error) {
	if r.observer != nil {
		r.observer.ObserveRegistryCall(method, time.Since(start), err)
	}
}

func (r *InstrumentedNameRegistry) ProjectIDBySlugHash(ctx context.Context, slugHash common.Hash) (interfaces.ProjectID, error) {
	start := time.Now()
	id, err := r.next.ProjectIDBySlugHash(ctx, slugHash)
	r.observe(methodProjectIDBySlugHash, start, err)
	return id, err
}

func (r *InstrumentedNameRegistry) NameNodeFromHash(ctx context.Context, projectID interfaces.ProjectID, labelHash common.Hash) (interfaces.Node, error) {
	start := time.Now()
	node, err := r.next.NameNodeFromHash(ctx, projectID, labelHash)
	r.observe(methodNameNodeFromHash, start, err)
	return node, err
}

func (r *InstrumentedNameRegistry) ResolveAddr(ctx context.Context, node interfaces.Node) (common.Address, error) {
	start := time.Now()
	addr, err := r.next.ResolveAddr(ctx, node)
	r.observe("resolveAddr", start, err)
	return addr, err
}
