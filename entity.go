package vlist

// Entity is an externally defined list item. The engine treats entities as
// opaque values and never mutates their identity fields.
type Entity interface {
	// EntityID returns the globally unique identifier of the entity.
	EntityID() string
	// ListID returns the identifier of the list partition the entity
	// belongs to.
	ListID() string
}

// Compare imposes a total order on entities. It returns a negative number if
// a sorts before b, zero if they sort equally, and a positive number
// otherwise. The same comparator orders both the loaded and the selected
// sequences.
type Compare func(a, b Entity) int

// CursorMax is the sentinel cursor used for the first page request. It sorts
// after any practical identifier so the data source returns its newest page
// first.
const CursorMax = "￿"

// Op identifies an externally originated change to an entity.
type Op int

// Available entity operations.
const (
	OpCreate Op = iota + 1
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// EntityEvent is a create/update/delete notification for a single entity,
// delivered through [List.EntityEventReceived].
type EntityEvent struct {
	ID     string
	ListID string
	Op     Op
}
