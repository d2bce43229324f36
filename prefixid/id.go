package prefixid

import (
	"strings"
)

// ID is an identifier of kind K. The zero value is the absence of an
// identifier; every other value starts with an accepted prefix of K and
// the separator. Equality (==), map hashing and Compare use the raw string.
type ID[K Kind] struct {
	raw string
}

// New mints a fresh identifier of kind K with K's primary prefix.
func New[K Kind]() ID[K] {
	var k K
	return ID[K]{raw: Generate(k.Prefix())}
}

// Parse reconstructs an identifier of kind K from s. Any accepted prefix
// is allowed and kept as-is.
func Parse[K Kind](s string) (ID[K], error) {
	var k K
	accepted := []string{k.Prefix()}
	if a, ok := any(k).(Aliased); ok {
		accepted = append(accepted, a.Aliases()...)
	}
	raw, err := ParseRaw(k.Name(), s, accepted...)
	if err != nil {
		return ID[K]{}, err
	}
	return ID[K]{raw: raw}, nil
}

// MustParse is like Parse but panics on error. Use it for constants and tests.
func MustParse[K Kind](s string) ID[K] {
	id, err := Parse[K](s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical form. No escaping is applied.
func (id ID[K]) String() string {
	return id.raw
}

// IsZero reports whether id is the zero value.
func (id ID[K]) IsZero() bool {
	return id.raw == ""
}

// Kind returns the descriptor of K.
func (id ID[K]) Kind() Descriptor {
	return DescriptorOf[K]()
}

// Prefix returns the prefix carried by id, which may be an alias.
func (id ID[K]) Prefix() string {
	p, _, _ := strings.Cut(id.raw, Separator)
	return p
}

// Suffix returns everything after the first separator.
func (id ID[K]) Suffix() string {
	_, s, _ := strings.Cut(id.raw, Separator)
	return s
}

// Compare orders identifiers by their raw strings.
func (id ID[K]) Compare(other ID[K]) int {
	return strings.Compare(id.raw, other.raw)
}

// EqualString compares the raw form with untyped data. It is meant for
// tests and for checking external input, not as a substitute for typed
// comparison.
func (id ID[K]) EqualString(s string) bool {
	return id.raw == s
}
