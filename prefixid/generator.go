package prefixid

import (
	"errors"
	"fmt"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Separator joins prefix and suffix.
	Separator = "_"
	// MaxPrefixLen is the longest prefix Generate accepts.
	MaxPrefixLen = 4
	// DefaultLength is the default suffix length.
	DefaultLength = 21
	// ColumnWidth is the recommended text column width:
	// MaxPrefixLen + len(Separator) + DefaultLength.
	ColumnWidth = MaxPrefixLen + len(Separator) + DefaultLength
	// ColumnType is the recommended SQL column type.
	ColumnType = "VARCHAR(26)"
)

const (
	// DefaultAlphabet is the nanoid URL-safe alphabet (64 symbols).
	DefaultAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// UnambiguousAlphabet drops look-alike characters (0/O, 1/l/I, ...)
	// and punctuation. It needs a longer suffix for the same entropy.
	UnambiguousAlphabet = "346789ABCDEFGHJKLMNPQRTUVWXYabcdefghijkmnpqrtwxyz"
)

var (
	// ErrInvalidAlphabet is returned by NewGenerator for unusable alphabets.
	ErrInvalidAlphabet = errors.New("prefixid: invalid alphabet")
	// ErrInvalidLength is returned by NewGenerator for non-positive lengths.
	ErrInvalidLength = errors.New("prefixid: invalid suffix length")
)

// Generator draws random suffixes. It is immutable and safe for concurrent use.
type Generator struct {
	alphabet string
	length   int
}

// Option configures a Generator.
type Option func(*Generator)

// WithAlphabet sets the suffix alphabet.
func WithAlphabet(alphabet string) Option {
	return func(g *Generator) { g.alphabet = alphabet }
}

// WithLength sets the suffix length.
func WithLength(n int) Option {
	return func(g *Generator) { g.length = n }
}

// NewGenerator returns a generator using DefaultAlphabet and DefaultLength
// unless overridden.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{alphabet: DefaultAlphabet, length: DefaultLength}
	for _, opt := range opts {
		opt(g)
	}
	if g.length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, g.length)
	}
	if err := validateAlphabet(g.alphabet); err != nil {
		return nil, err
	}
	return g, nil
}

// Alphabet returns the suffix alphabet.
func (g *Generator) Alphabet() string { return g.alphabet }

// Length returns the suffix length.
func (g *Generator) Length() int { return g.length }

// Suffix draws one random suffix. It panics if the system randomness source
// fails, which is treated as fatal.
func (g *Generator) Suffix() string {
	s, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		panic("prefixid: random source failed: " + err.Error())
	}
	return s
}

// Generate returns prefix + "_" + a fresh suffix. A prefix longer than
// MaxPrefixLen is a programming error and panics.
func (g *Generator) Generate(prefix string) string {
	if len(prefix) > MaxPrefixLen {
		panic(fmt.Sprintf("prefixid: prefix %q is longer than %d characters", prefix, MaxPrefixLen))
	}
	return prefix + Separator + g.Suffix()
}

var defaultGenerator atomic.Pointer[Generator]

func init() {
	defaultGenerator.Store(&Generator{alphabet: DefaultAlphabet, length: DefaultLength})
}

// DefaultGenerator returns the process-wide generator.
func DefaultGenerator() *Generator {
	return defaultGenerator.Load()
}

// SetDefaultGenerator replaces the process-wide generator and returns the
// previous one. A nil g restores the built-in default.
func SetDefaultGenerator(g *Generator) *Generator {
	if g == nil {
		g = &Generator{alphabet: DefaultAlphabet, length: DefaultLength}
	}
	return defaultGenerator.Swap(g)
}

// Generate mints a raw identifier with the process-wide generator.
func Generate(prefix string) string {
	return DefaultGenerator().Generate(prefix)
}

func validateAlphabet(alphabet string) error {
	n := len(alphabet)
	if n < 2 || n > 255 {
		return fmt.Errorf("%w: need 2 to 255 symbols, got %d", ErrInvalidAlphabet, n)
	}
	var seen [256]bool
	for i := 0; i < n; i++ {
		c := alphabet[i]
		if c <= ' ' || c > '~' {
			return fmt.Errorf("%w: %q is not printable ASCII", ErrInvalidAlphabet, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: %q repeated", ErrInvalidAlphabet, c)
		}
		seen[c] = true
	}
	return nil
}
