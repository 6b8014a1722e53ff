// Package backend defines the code-emitter plugin interface spec.md §6
// describes and a small string-keyed registry for it, grounded on how
// cmd/vartan's subcommands (compile.go, describe.go, show.go) are
// themselves a registry-by-name of operations over a compiled grammar,
// one level up. The core is agnostic to backend selection; this package
// only names backends by string key and dispatches to them.
package backend

import (
	"fmt"

	"golang.org/x/exp/maps"

	"github.com/YaccConstructor/facio/grammar"
)

// Backend is the interface spec.md §6 describes: "an object with a single
// operation Invoke(processedSpec, parserTable, options) whose side
// effects are its own."
type Backend interface {
	// Invoke emits whatever this backend produces from a compiled
	// grammar. options is opaque to the core, exactly like
	// facio.CompileOption is to a driver; a Backend defines its own
	// shape for it and type-asserts internally.
	Invoke(table *grammar.ParsingTable, symTab *grammar.Grammar, options any) error
}

// Registry names Backends by string key. It holds no default
// registrations of its own; a driver wires in whichever Backends its
// deployment needs.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: map[string]Backend{}}
}

// Register adds or replaces the Backend named key.
func (r *Registry) Register(key string, b Backend) {
	r.backends[key] = b
}

// Lookup returns the Backend named key, or ok=false if none was
// registered under that name.
func (r *Registry) Lookup(key string) (Backend, bool) {
	b, ok := r.backends[key]
	return b, ok
}

// Keys returns every registered backend name, in no particular order.
func (r *Registry) Keys() []string {
	return maps.Keys(r.backends)
}

// Invoke looks key up and calls its Invoke, returning an error naming the
// unknown key if no Backend is registered under it.
func (r *Registry) Invoke(key string, table *grammar.ParsingTable, symTab *grammar.Grammar, options any) error {
	b, ok := r.Lookup(key)
	if !ok {
		return fmt.Errorf("no backend registered under key %q", key)
	}
	return b.Invoke(table, symTab, options)
}
