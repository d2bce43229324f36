// Package catalog holds identifier kinds known at runtime.
//
// Compiled code declares kinds as marker types (see prefixid.Kind). Tools
// that learn kinds from configuration, such as the idkit CLI, register
// prefixid.Descriptor values here instead. The catalog guarantees that no
// two kinds share a name or any accepted prefix, so every raw identifier
// resolves to at most one kind.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zjrosen/idkit/internal/config"
	"github.com/zjrosen/idkit/prefixid"
)

// Catalog errors
var (
	ErrNotFound       = errors.New("catalog: kind not found")
	ErrDuplicateName  = errors.New("catalog: duplicate kind name")
	ErrPrefixConflict = errors.New("catalog: prefix already claimed")
	ErrUnknownPrefix  = errors.New("catalog: no kind accepts this prefix")
)

// Catalog is a set of kinds keyed by name and by accepted prefix.
// It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	byName   map[string]prefixid.Descriptor
	byPrefix map[string]string // accepted prefix -> kind name
}

// New creates a catalog holding descs.
func New(descs ...prefixid.Descriptor) (*Catalog, error) {
	c := &Catalog{
		byName:   make(map[string]prefixid.Descriptor, len(descs)),
		byPrefix: make(map[string]string, len(descs)),
	}
	for _, d := range descs {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromConfig creates a catalog from configured kinds.
func FromConfig(kinds []config.KindConfig) (*Catalog, error) {
	descs := make([]prefixid.Descriptor, 0, len(kinds))
	for _, k := range kinds {
		descs = append(descs, k.Descriptor())
	}
	return New(descs...)
}

// Register adds d. It is idempotent for an identical descriptor.
func (c *Catalog) Register(d prefixid.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byName[d.Name]; ok {
		if sameDescriptor(existing, d) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateName, d.Name)
	}
	for name := range c.byName {
		if strings.EqualFold(name, d.Name) {
			return fmt.Errorf("%w: %s differs from %s only by case", ErrDuplicateName, d.Name, name)
		}
	}
	for _, p := range d.Accepted() {
		if owner, taken := c.byPrefix[p]; taken {
			return fmt.Errorf("%w: %q belongs to %s", ErrPrefixConflict, p, owner)
		}
	}

	c.byName[d.Name] = d
	for _, p := range d.Accepted() {
		c.byPrefix[p] = d.Name
	}
	return nil
}

// Lookup returns the kind registered under name.
func (c *Catalog) Lookup(name string) (prefixid.Descriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.byName[name]
	if !ok {
		return prefixid.Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return d, nil
}

// LookupFold resolves a CLI argument: an exact name first, then a primary
// prefix, then a case-insensitive name. Names never collide under case
// folding, so the result is unique.
func (c *Catalog) LookupFold(nameOrPrefix string) (prefixid.Descriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if d, ok := c.byName[nameOrPrefix]; ok {
		return d, nil
	}
	if name, ok := c.byPrefix[nameOrPrefix]; ok && c.byName[name].Prefix == nameOrPrefix {
		return c.byName[name], nil
	}
	for name, d := range c.byName {
		if strings.EqualFold(name, nameOrPrefix) {
			return d, nil
		}
	}
	return prefixid.Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, nameOrPrefix)
}

// Resolve returns the kind whose accepted prefixes match candidate.
func (c *Catalog) Resolve(candidate string) (prefixid.Descriptor, error) {
	prefix, _, ok := strings.Cut(candidate, prefixid.Separator)
	if !ok {
		return prefixid.Descriptor{}, fmt.Errorf("%w: %q has no %q separator", ErrUnknownPrefix, candidate, prefixid.Separator)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	name, found := c.byPrefix[prefix]
	if !found {
		return prefixid.Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
	}
	return c.byName[name], nil
}

// List returns all kinds sorted by name.
func (c *Catalog) List() []prefixid.Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]prefixid.Descriptor, 0, len(c.byName))
	for _, d := range c.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of kinds.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}

func sameDescriptor(a, b prefixid.Descriptor) bool {
	if a.Name != b.Name || a.Prefix != b.Prefix || len(a.Aliases) != len(b.Aliases) {
		return false
	}
	for i := range a.Aliases {
		if a.Aliases[i] != b.Aliases[i] {
			return false
		}
	}
	return true
}
