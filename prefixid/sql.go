package prefixid

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

var (
	_ driver.Valuer = ID[Kind]{}
	_ sql.Scanner   = (*ID[Kind])(nil)
	_ driver.Valuer = NullID[Kind]{}
	_ sql.Scanner   = (*NullID[Kind])(nil)
)

// Value stores id as text. A zero ID is refused; store absence with NullID
// (or a nil *ID) so it becomes SQL NULL rather than an empty string.
func (id ID[K]) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, zeroErr[K]()
	}
	return id.raw, nil
}

// Scan parses text columns. NULL fails with ErrNullID and integer columns
// with ErrNumericID.
func (id *ID[K]) Scan(src any) error {
	name := kindName[K]()
	switch v := src.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	case nil:
		return fmt.Errorf("scan `%s`: %w", name, ErrNullID)
	case int64, float64:
		return &TypeMismatchError{TypeName: name, Got: fmt.Sprintf("%T", v), Err: ErrNumericID}
	default:
		return &TypeMismatchError{TypeName: name, Got: fmt.Sprintf("%T", v)}
	}
}

// NullID is an identifier that may be absent, mirroring sql.NullString.
type NullID[K Kind] struct {
	ID    ID[K]
	Valid bool
}

// NullOf wraps id; a zero id yields an invalid NullID.
func NullOf[K Kind](id ID[K]) NullID[K] {
	return NullID[K]{ID: id, Valid: !id.IsZero()}
}

// Ptr returns nil for an invalid NullID and a pointer to the ID otherwise.
func (n NullID[K]) Ptr() *ID[K] {
	if !n.Valid {
		return nil
	}
	id := n.ID
	return &id
}

// Value implements driver.Valuer; an invalid NullID is NULL.
func (n NullID[K]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.ID.Value()
}

// Scan implements sql.Scanner; NULL yields an invalid NullID.
func (n *NullID[K]) Scan(src any) error {
	*n = NullID[K]{}
	if src == nil {
		return nil
	}
	if err := n.ID.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
