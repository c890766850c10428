package browse

import (
	"sync"

	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

// Location is the address bar as seen by a session: it is read once at
// start and rewritten with the canonical params after every change.
type Location interface {
	ReadLocation() querystate.Params
	WriteLocation(querystate.Params)
}

// MemoryLocation is an address bar that lives in process memory.
type MemoryLocation struct {
	mu     sync.Mutex
	params querystate.Params
	writes int
}

func NewMemoryLocation(initial querystate.Params) *MemoryLocation {
	return &MemoryLocation{params: copyParams(initial)}
}

func (l *MemoryLocation) ReadLocation() querystate.Params {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyParams(l.params)
}

func (l *MemoryLocation) WriteLocation(p querystate.Params) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.params = copyParams(p)
	l.writes++
}

// String renders the location the way an address bar shows a query.
func (l *MemoryLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.params) == 0 {
		return ""
	}
	return "?" + l.params.Encode()
}

func copyParams(p querystate.Params) querystate.Params {
	out := make(querystate.Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
