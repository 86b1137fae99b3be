// Package opgate serialises the long-running repository operations (poll-driven
// reloads and relocations) so neither starts while the other is in flight.
package opgate

import "sync"

// Gate admits one named operation at a time.
type Gate struct {
	mu     sync.Mutex
	holder string
}

// New returns an open gate.
func New() *Gate { return &Gate{} }

// TryEnter claims the gate for name. When the gate is held it returns ok=false
// without blocking. The release func is idempotent.
func (g *Gate) TryEnter(name string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.holder != "" {
		return func() {}, false
	}
	g.holder = name

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.holder = ""
			g.mu.Unlock()
		})
	}, true
}

// Holder names the operation currently holding the gate, "" when open.
func (g *Gate) Holder() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holder
}
