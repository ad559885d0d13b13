package snapshot

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// Generator priorities. A generator reports PriorityNone for types and
// dialects it does not handle.
const (
	PriorityNone       = 0
	PriorityDefault    = 1
	PriorityDatabase   = 5
	PriorityAdditional = 50
)

type (
	// Generator produces or extends objects of the types it reports a
	// priority for.
	Generator interface {
		// Name identifies the generator to Replaces.
		Name() string

		// Produces is the object type the generator creates.
		Produces() object.Type

		// AddsTo lists the types whose objects the generator extends.
		AddsTo() []object.Type

		// Priority is PriorityNone when the generator does not handle t on d.
		Priority(t object.Type, d *database.Dialect) int

		// Replaces names generators removed from any chain this one is part of.
		Replaces() []string

		// Snapshot produces the object matching example, or nil when the
		// database has none. It may delegate to the rest of the chain.
		Snapshot(ctx context.Context, example object.Object, snap *Snapshot, chain *Chain) (object.Object, error)
	}

	// Chain is the ordered remainder of the generators for one object type.
	Chain struct {
		gens []Generator
	}

	// Registry holds the known generators and memoizes the chain for each
	// (type, dialect) pair. It is safe for concurrent use.
	Registry struct {
		mu     sync.RWMutex
		gens   []Generator
		chains map[chainKey][]Generator
	}

	chainKey struct {
		kind    object.Type
		dialect string
	}
)

// ErrInvalidGenerator is returned when registering a generator with a
// missing or duplicate name or an unknown object type.
var ErrInvalidGenerator = errors.New("invalid generator")

// NewRegistry creates a registry holding gens. It panics if any generator is
// invalid, since the built-in set is fixed at compile time.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{chains: make(map[chainKey][]Generator)}
	for _, g := range gens {
		if err := r.Register(g); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a generator and drops the memoized chains.
func (r *Registry) Register(g Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate(g); err != nil {
		return err
	}

	r.gens = append(r.gens, g)
	clear(r.chains)
	return nil
}

func (r *Registry) validate(g Generator) error {
	if g.Name() == "" {
		return errors.Wrap(ErrInvalidGenerator, "empty name")
	}

	if slices.ContainsFunc(r.gens, func(other Generator) bool { return other.Name() == g.Name() }) {
		return errors.Wrapf(ErrInvalidGenerator, "%s: already registered", g.Name())
	}

	for _, t := range append([]object.Type{g.Produces()}, g.AddsTo()...) {
		if !slices.Contains(object.Types(), t) {
			return errors.Wrapf(ErrInvalidGenerator, "%s: unknown object type %q", g.Name(), t)
		}
	}

	return nil
}

// Unregister removes generators by name and drops the memoized chains.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gens = slices.DeleteFunc(r.gens, func(g Generator) bool {
		return g.Name() == name
	})
	clear(r.chains)
}

// Generators returns the generators for t on d in chain order: highest
// priority first, ties broken by name, replaced generators removed.
func (r *Registry) Generators(t object.Type, d *database.Dialect) []Generator {
	key := chainKey{kind: t, dialect: d.Name}

	r.mu.RLock()
	gens, ok := r.chains[key]
	r.mu.RUnlock()
	if ok {
		return gens
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if gens, ok := r.chains[key]; ok {
		return gens
	}

	var candidates []Generator
	replaced := make(map[string]bool)
	for _, g := range r.gens {
		if g.Priority(t, d) <= PriorityNone {
			continue
		}
		candidates = append(candidates, g)
		for _, name := range g.Replaces() {
			replaced[name] = true
		}
	}

	gens = slices.DeleteFunc(candidates, func(g Generator) bool {
		return replaced[g.Name()]
	})

	slices.SortStableFunc(gens, func(a, b Generator) int {
		if c := cmp.Compare(b.Priority(t, d), a.Priority(t, d)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name(), b.Name())
	})

	slog.Debug("Resolved generator chain", "type", t, "dialect", d.Name, "generators", len(gens))
	r.chains[key] = gens
	return gens
}

// Chain returns a chain over the generators for t on d.
func (r *Registry) Chain(t object.Type, d *database.Dialect) *Chain {
	return &Chain{gens: r.Generators(t, d)}
}

// Snapshot runs the next generator, or returns nil when the chain is
// exhausted.
func (c *Chain) Snapshot(ctx context.Context, example object.Object, snap *Snapshot) (object.Object, error) {
	if c == nil || len(c.gens) == 0 {
		return nil, nil
	}

	return c.gens[0].Snapshot(ctx, example, snap, &Chain{gens: c.gens[1:]})
}

// Len returns the number of generators left in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.gens)
}
