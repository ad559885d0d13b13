package object

// Sequence is a standalone number generator.
type Sequence struct {
	ID          string
	Name        string
	Schema      *Schema
	StartValue  *int64
	IncrementBy *int64
	MinValue    *int64
	MaxValue    *int64
	Ordered     bool
	WillCycle   bool
}

func (s *Sequence) ObjectType() Type { return TypeSequence }
func (s *Sequence) GetName() string { return s.Name }
func (s *Sequence) SnapshotID() string { return s.ID }
func (s *Sequence) SetSnapshotID(id string) { s.ID = id }
func (s *Sequence) String() string { return qualify(schemaName(s.Schema), s.Name) }
