package letterstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
)

// Memory is an in-process dispatch.Store. Safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	requests  []dispatch.Request
	responses []dispatch.Response
	byID      map[uuid.UUID]int
}

var _ dispatch.Store = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[uuid.UUID]int)}
}

func (m *Memory) FindRequestsByReference(_ context.Context, reference string) ([]dispatch.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []dispatch.Request
	for _, r := range m.requests {
		if r.Reference == reference {
			r.Personalisation = slices.Clone(r.Personalisation)
			found = append(found, r)
		}
	}
	return found, nil
}

func (m *Memory) StoreRequest(_ context.Context, r dispatch.Request) error {
	if err := validateRequest(r); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.ID]; ok {
		return fmt.Errorf("%w: duplicate request id %s", ErrInvalidRecord, r.ID)
	}
	r.Personalisation = slices.Clone(r.Personalisation)
	m.byID[r.ID] = len(m.requests)
	m.requests = append(m.requests, r)
	return nil
}

func (m *Memory) StoreResponse(_ context.Context, r dispatch.Response) error {
	if err := validateResponse(r); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.RequestID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRequest, r.RequestID)
	}
	m.responses = append(m.responses, r)
	return nil
}

// Responses returns the responses stored for a request.
func (m *Memory) Responses(requestID uuid.UUID) []dispatch.Response {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []dispatch.Response
	for _, r := range m.responses {
		if r.RequestID == requestID {
			out = append(out, r)
		}
	}
	return out
}
