package observability

import (
	"sync"

	"github.com/Dcomputer22/trackdesk/pkg/util"
)

// Metrics provides basic in-memory counters for store and session operations.
// Keys have the shape "component|operation|outcome" where outcome is "ok" or
// the domain error code.
type Metrics struct {
	mu  sync.Mutex
	ops map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		ops: make(map[string]int64),
	}
}

// RecordOp increments the counter for one completed operation. Safe on a nil
// receiver so components can treat metrics as optional.
func (m *Metrics) RecordOp(component, op string, err error) {
	if m == nil {
		return
	}
	key := component + "|" + op + "|" + outcome(err)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[key]++
}

// Snapshot returns a copy of the counters for presentation surfaces.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.ops))
	for k, v := range m.ops {
		out[k] = v
	}
	return out
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := util.CodeOf(err); code != "" {
		return code
	}
	return "error"
}
