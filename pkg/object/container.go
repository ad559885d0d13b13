package object

type (
	// Catalog is the outermost namespace. Dialects without catalogs expose a
	// single default catalog.
	Catalog struct {
		ID        string
		Name      string
		IsDefault bool
	}

	// Schema is a namespace inside a catalog. For dialects without schema
	// support it is a placeholder for the default namespace.
	Schema struct {
		ID        string
		Name      string
		Catalog   *Catalog
		IsDefault bool
	}
)

func (c *Catalog) ObjectType() Type { return TypeCatalog }
func (c *Catalog) GetName() string { return c.Name }
func (c *Catalog) SnapshotID() string { return c.ID }
func (c *Catalog) SetSnapshotID(id string) { c.ID = id }
func (c *Catalog) String() string { return c.Name }

func (s *Schema) ObjectType() Type { return TypeSchema }
func (s *Schema) GetName() string { return s.Name }
func (s *Schema) SnapshotID() string { return s.ID }
func (s *Schema) SetSnapshotID(id string) { s.ID = id }
func (s *Schema) GetCatalog() *Catalog { return s.Catalog }

func (s *Schema) String() string {
	if s.Catalog == nil {
		return s.Name
	}
	return qualify(s.Catalog.Name, s.Name)
}
