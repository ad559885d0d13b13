// Package object defines the dialect-independent model a snapshot is made of.
//
// Every database object implements Object: it has a name, a short-lived
// snapshot id assigned when it is added to a snapshot, and a Type tag. The
// concrete types mirror the structure of a relational schema:
//
//	Catalog
//	└── Schema
//	    ├── Table
//	    │   ├── Column
//	    │   ├── PrimaryKey
//	    │   ├── Index
//	    │   ├── UniqueConstraint
//	    │   └── ForeignKey (-> referenced Table)
//	    ├── View
//	    │   └── Column
//	    └── Sequence
//
// Objects are plain structs. Identity (whether two instances describe the same
// database object) is decided by the identity package, never by pointer
// equality.
//
// Example:
//
//	users := &object.Table{Name: "users", Schema: &object.Schema{Name: "public"}}
//	users.AddColumn(&object.Column{
//		Name:     "id",
//		Type:     object.ParseDataType("int"),
//		Nullable: false,
//	})
//
//	fmt.Println(users)            // public.users
//	fmt.Println(users.Columns[0]) // public.users.id
package object
