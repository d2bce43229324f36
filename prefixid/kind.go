package prefixid

import (
	"fmt"
	"slices"
	"strings"
)

// Kind binds an identifier type to its display name and primary prefix.
// Implementations are zero-size marker types; methods must not depend on
// receiver state because they are called on the zero value.
type Kind interface {
	Name() string
	Prefix() string
}

// Aliased is implemented by kinds that still accept legacy prefixes.
// Aliases are accepted on parse and never generated.
type Aliased interface {
	Aliases() []string
}

// Descriptor is the runtime form of a Kind. Tools that only know kinds at
// runtime (config files, the CLI) work with descriptors directly.
type Descriptor struct {
	Name    string   `json:"name" yaml:"name"`
	Prefix  string   `json:"prefix" yaml:"prefix"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// DescriptorOf returns the descriptor of K.
func DescriptorOf[K Kind]() Descriptor {
	var k K
	d := Descriptor{Name: k.Name(), Prefix: k.Prefix()}
	if a, ok := any(k).(Aliased); ok {
		d.Aliases = slices.Clone(a.Aliases())
	}
	return d
}

// Accepted returns the primary prefix followed by the aliases in order.
func (d Descriptor) Accepted() []string {
	out := make([]string, 0, 1+len(d.Aliases))
	out = append(out, d.Prefix)
	return append(out, d.Aliases...)
}

// Validate checks the name and every accepted prefix: 1 to MaxPrefixLen
// printable ASCII characters, no separator, no duplicates.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: empty kind name", ErrInvalidPrefix)
	}
	seen := make(map[string]struct{}, 1+len(d.Aliases))
	for _, p := range d.Accepted() {
		if err := validatePrefix(p); err != nil {
			return fmt.Errorf("kind %s: %w", d.Name, err)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("kind %s: %w: %q listed twice", d.Name, ErrInvalidPrefix, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// Generate mints a new raw identifier with the primary prefix.
func (d Descriptor) Generate() string {
	return Generate(d.Prefix)
}

// Parse validates candidate against the accepted prefixes and returns it
// unchanged on success.
func (d Descriptor) Parse(candidate string) (string, error) {
	return ParseRaw(d.Name, candidate, d.Accepted()...)
}

// Match reports whether candidate carries one of the accepted prefixes,
// without notifying the observer.
func (d Descriptor) Match(candidate string) bool {
	_, ok := matchPrefix(candidate, d.Accepted())
	return ok
}

// Split returns the accepted prefix candidate carries and the suffix after
// the separator. Like Match, it does not notify the observer.
func (d Descriptor) Split(candidate string) (prefix, suffix string, ok bool) {
	prefix, ok = matchPrefix(candidate, d.Accepted())
	if !ok {
		return "", "", false
	}
	return prefix, candidate[len(prefix)+len(Separator):], true
}

func validatePrefix(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	}
	if len(p) > MaxPrefixLen {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidPrefix, p, MaxPrefixLen)
	}
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c <= ' ' || c > '~' || c == Separator[0] {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidPrefix, p, c)
		}
	}
	return nil
}
