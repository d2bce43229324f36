// Package ledger records minted identifiers in a local SQLite database.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/idkit/prefixid"
)

type mintKind struct{}

func (mintKind) Name() string   { return "MintID" }
func (mintKind) Prefix() string { return "mnt" }

type batchKind struct{}

func (batchKind) Name() string   { return "BatchID" }
func (batchKind) Prefix() string { return "bat" }

// MintID identifies one ledger row.
type MintID = prefixid.ID[mintKind]

// BatchID groups mints recorded by a single command.
type BatchID = prefixid.ID[batchKind]

// NullBatchID is a BatchID that may be absent.
type NullBatchID = prefixid.NullID[batchKind]

// ParseMintID parses a ledger row identifier.
func ParseMintID(s string) (MintID, error) { return prefixid.Parse[mintKind](s) }

// ParseBatchID parses a batch identifier.
func ParseBatchID(s string) (BatchID, error) { return prefixid.Parse[batchKind](s) }

// NewBatchID mints a batch identifier.
func NewBatchID() BatchID { return prefixid.New[batchKind]() }

// Mint is one recorded identifier.
type Mint struct {
	ID        MintID
	Kind      string // kind name, e.g. UserID
	Value     string // the minted identifier
	Batch     NullBatchID
	CreatedAt time.Time
}

// ListFilter narrows List results.
type ListFilter struct {
	// Kind filters by kind name. Empty means all kinds.
	Kind string

	// Limit caps the number of rows. 0 means no limit.
	Limit int
}

// ErrDuplicateValue is returned when a value is already recorded.
var ErrDuplicateValue = errors.New("ledger: value already recorded")

// MintNotFoundError is returned when no row matches a lookup.
type MintNotFoundError struct {
	ID    string
	Value string
}

func (e *MintNotFoundError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("mint with value %s not found", e.Value)
	}
	return fmt.Sprintf("mint %s not found", e.ID)
}
