package accessible

// Entity is the schema-reflection capability the compiler consumes. It
// answers, for one entity type, how attribute names map to columns, how
// relation names resolve to target entities, and which attributes are
// enumeration-valued.
//
// Implementations must be safe for concurrent reads; the compiler performs no
// writes through this interface. gormadapter derives entities from GORM model
// structs, schemafile from a YAML document.
type Entity interface {
	// Name identifies the entity type, used in error messages.
	Name() string

	// Table returns the physical table name. The root entity's table also
	// serves as the root query context alias.
	Table() string

	// Column resolves an attribute name to its column name.
	Column(name string) (string, bool)

	// Relation resolves an association name to its join description and
	// target entity.
	Relation(name string) (*Relation, bool)

	// Enum returns the symbol-to-stored-value mapping for an
	// enumeration-valued attribute, or false for plain attributes.
	Enum(attribute string) (EnumSet, bool)
}

// Relation describes how a named association reaches its target entity. Most
// associations join in a single step; many-to-many associations add an
// intermediate join-table step.
type Relation struct {
	Name   string
	Target Entity
	Steps  []JoinStep
}

// JoinStep is one physical table hop in a relation join.
type JoinStep struct {
	// Table is the table joined by this step.
	Table string

	// On lists the join conditions between this step's table and the
	// previously joined side.
	On []ColumnPair
}

// ColumnPair is a single ON condition for a join step. Right names a column
// on the newly joined table. It is matched against Left on the previously
// joined side, or against the literal Value when Value is non-empty
// (polymorphic type columns).
type ColumnPair struct {
	Left  string
	Right string
	Value string
}

// EnumSet maps an enumeration attribute's symbolic values to their stored
// integer representation.
type EnumSet map[string]int64

// EnumMapped is the optional capability a model implements to declare
// enumeration-valued attributes. Keys are attribute names as they appear in
// rule conditions; without this capability comparisons are literal.
type EnumMapped interface {
	AttributeEnums() map[string]EnumSet
}
