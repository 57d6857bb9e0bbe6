package runtime

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Environment provides lexical scoping for rill values. Bindings are guarded
// by a read-write mutex because spawned tasks keep reading the scope they
// were created in.
type Environment struct {
	mu     sync.RWMutex
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.mu.Lock()
	e.values[name] = value
	e.mu.Unlock()
}

// Assign updates an existing binding in the nearest scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		env.mu.Lock()
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			env.mu.Unlock()
			return nil
		}
		env.mu.Unlock()
	}
	return e.undefined(name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		v, ok := env.values[name]
		env.mu.RUnlock()
		if ok {
			return v, nil
		}
	}
	return nil, e.undefined(name)
}

// Has reports whether a name is bound anywhere in the chain.
func (e *Environment) Has(name string) bool {
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		_, ok := env.values[name]
		env.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

func (e *Environment) undefined(name string) error {
	msg := fmt.Sprintf("Undefined variable '%s'", name)
	if closest, ok := e.Suggest(name); ok {
		msg += fmt.Sprintf(". Did you mean '%s'?", closest)
	}
	return &Error{Kind: ErrUndefinedVariable, Message: msg}
}

// Suggest returns the closest visible name for a misspelled identifier.
func (e *Environment) Suggest(name string) (string, bool) {
	return Closest(name, e.VisibleNames())
}

// Closest fuzzy-ranks candidates against a misspelled name and returns the
// best match, if any.
func Closest(name string, candidates []string) (string, bool) {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}

// VisibleNames collects every binding reachable from this scope, shadowed
// names included once, in sorted order.
func (e *Environment) VisibleNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, 16)
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		for k := range env.values {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
		env.mu.RUnlock()
	}
	sort.Strings(names)
	return names
}

// Keys returns this scope's own bindings in sorted order (useful for
// determinism in tests and the REPL).
func (e *Environment) Keys() []string {
	e.mu.RLock()
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	e.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Extend creates an empty child scope with this environment as its parent.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
