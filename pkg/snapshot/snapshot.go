package snapshot

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/cache"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/identity"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// ErrMetadataAccess is matched by every error raised while reading metadata
// from a live database.
var ErrMetadataAccess = errors.New("failed to read database metadata")

type (
	// Metadata describes where a snapshot came from.
	Metadata struct {
		Dialect        string
		ProductName    string
		ProductVersion string
	}

	// MetadataError reports a failed metadata read for one example object. It
	// matches ErrMetadataAccess with errors.Is and unwraps to the cause.
	MetadataError struct {
		Type object.Type
		Name string
		Err  error
	}

	// Option configures a Snapshot.
	Option func(*Snapshot)

	// Snapshot is the set of objects found in one database.
	Snapshot struct {
		dialect  *database.Dialect
		db       database.Database
		control  *Control
		cmp      *identity.Comparator
		registry *Registry
		ids      *IDGenerator
		store    *cache.Store
		meta     Metadata
		examples []object.Object
		buckets  map[object.Type]identity.Buckets
		ordered  map[object.Type][]object.Object
	}
)

func (e *MetadataError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: %s: %v", ErrMetadataAccess, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", ErrMetadataAccess, e.Type, e.Name, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

func (e *MetadataError) Is(target error) bool { return target == ErrMetadataAccess }

// WithDatabase sets the live database Include reads from.
func WithDatabase(db database.Database) Option {
	return func(s *Snapshot) { s.db = db }
}

// WithRegistry sets the generators Include runs.
func WithRegistry(r *Registry) Option {
	return func(s *Snapshot) { s.registry = r }
}

// WithIDGenerator shares an id generator between snapshots.
func WithIDGenerator(g *IDGenerator) Option {
	return func(s *Snapshot) { s.ids = g }
}

// WithCache replaces the metadata cache store.
func WithCache(store *cache.Store) Option {
	return func(s *Snapshot) { s.store = store }
}

// WithMetadata sets the snapshot's product metadata.
func WithMetadata(m Metadata) Option {
	return func(s *Snapshot) { s.meta = m }
}

// New creates an empty snapshot. A nil control captures the dialect's
// standard types. Without a database the snapshot can only be filled with Add.
func New(d *database.Dialect, control *Control, opts ...Option) *Snapshot {
	if control == nil {
		control = NewControl(d)
	}

	s := &Snapshot{
		dialect: d,
		control: control,
		cmp:     identity.New(d),
		meta:    Metadata{Dialect: d.Name, ProductName: d.ProductName},
		buckets: make(map[object.Type]identity.Buckets),
		ordered: make(map[object.Type][]object.Object),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.ids == nil {
		s.ids = NewIDGenerator()
	}
	if s.store == nil {
		s.store = cache.NewStore(d)
	}

	return s
}

func (s *Snapshot) Dialect() *database.Dialect { return s.dialect }
func (s *Snapshot) Database() database.Database { return s.db }
func (s *Snapshot) Control() *Control { return s.control }
func (s *Snapshot) Comparator() *identity.Comparator { return s.cmp }
func (s *Snapshot) Metadata() Metadata { return s.meta }
func (s *Snapshot) Examples() []object.Object { return slices.Clone(s.examples) }
func (s *Snapshot) CacheStats() map[string]cache.Stats { return s.store.Stats() }

// Cache returns the named metadata cache.
func (s *Snapshot) Cache(name string) *cache.Cache {
	return s.store.For(name)
}

// Add stores o and returns it, or returns the identical object already
// stored. o gets a snapshot id when it has none.
func (s *Snapshot) Add(o object.Object) (object.Object, error) {
	existing, err := s.Get(o)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if o.SnapshotID() == "" {
		o.SetSnapshotID(s.ids.Next())
	}

	t := o.ObjectType()
	b, ok := s.buckets[t]
	if !ok {
		b = identity.Buckets{}
		s.buckets[t] = b
	}

	s.cmp.File(b, o)
	s.ordered[t] = append(s.ordered[t], o)
	return o, nil
}

// Get returns the stored object identical to example, or nil.
// identity.ErrInvalidExample is returned when example cannot be matched.
func (s *Snapshot) Get(example object.Object) (object.Object, error) {
	if example == nil {
		return nil, errors.Wrap(identity.ErrInvalidExample, "nil object")
	}

	b, ok := s.buckets[example.ObjectType()]
	if !ok {
		return nil, s.cmp.Validate(example)
	}

	return s.cmp.Find(b, example)
}

// Contains reports whether an object identical to example is stored.
func (s *Snapshot) Contains(example object.Object) bool {
	found, err := s.Get(example)
	return err == nil && found != nil
}

// All returns the stored objects of type t in the order they were added.
func (s *Snapshot) All(t object.Type) []object.Object {
	return slices.Clone(s.ordered[t])
}

// AllOf returns the stored objects of T's type.
//
// Example:
//
//	tables := snapshot.AllOf[*object.Table](snap)
func AllOf[T object.Object](s *Snapshot) []T {
	var zero T
	objs := s.ordered[zero.ObjectType()]

	out := make([]T, 0, len(objs))
	for _, o := range objs {
		if v, ok := o.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Include finds example in the database and stores the result, returning the
// stored object. It returns nil, without error, when the type is not
// captured, the filter rejects example, or the database has no such object.
func (s *Snapshot) Include(ctx context.Context, example object.Object) (object.Object, error) {
	if example == nil || !s.control.ShouldInclude(example.ObjectType()) {
		return nil, nil
	}

	existing, err := s.Get(example)
	if err != nil || existing != nil {
		return existing, err
	}

	if !s.control.Filter().Include(example) {
		return nil, nil
	}

	if s.db == nil {
		return nil, errors.Errorf("cannot include %s %q: snapshot has no database", example.ObjectType(), example.GetName())
	}

	obj, err := s.registry.Chain(example.ObjectType(), s.dialect).Snapshot(ctx, example, s)
	if err != nil {
		return nil, s.metadataError(example, err)
	}
	if obj == nil {
		return nil, nil
	}

	return s.Add(obj)
}

// Adopt stores an object a generator built directly from metadata rows. It
// applies the same type and filter checks as Include and returns nil when o
// is not captured.
func (s *Snapshot) Adopt(o object.Object) (object.Object, error) {
	if o == nil || !s.control.ShouldInclude(o.ObjectType()) || !s.control.Filter().Include(o) {
		return nil, nil
	}

	return s.Add(o)
}

func (s *Snapshot) metadataError(example object.Object, err error) error {
	var me *MetadataError
	if errors.As(err, &me) || errors.Is(err, identity.ErrInvalidExample) {
		return err
	}

	return &MetadataError{Type: example.ObjectType(), Name: example.GetName(), Err: err}
}
