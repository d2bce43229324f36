package presentation

import (
	"time"

	"github.com/zjrosen/idkit/internal/ledger"
	"github.com/zjrosen/idkit/prefixid"
)

// KindDTO represents an identifier kind for presentation
type KindDTO struct {
	Name    string   `json:"name"`
	Prefix  string   `json:"prefix"`
	Aliases []string `json:"aliases"` // always present
}

// FromDescriptor converts a descriptor to a DTO
func FromDescriptor(d prefixid.Descriptor) KindDTO {
	aliases := d.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return KindDTO{Name: d.Name, Prefix: d.Prefix, Aliases: aliases}
}

// FromDescriptors converts descriptors in order.
func FromDescriptors(ds []prefixid.Descriptor) []KindDTO {
	out := make([]KindDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDescriptor(d))
	}
	return out
}

// MintedDTO is the output of `idkit new`.
type MintedDTO struct {
	Kind  string   `json:"kind"`
	IDs   []string `json:"ids"`
	Batch string   `json:"batch,omitempty"`
}

// ParseResultDTO reports one candidate. Kind is empty when no kind matched.
type ParseResultDTO struct {
	Candidate string `json:"candidate"`
	Kind      string `json:"kind,omitempty"`
	Valid     bool   `json:"valid"`
	Prefix    string `json:"prefix,omitempty"`
	Suffix    string `json:"suffix,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Accepted builds a result for a candidate that kind d accepted.
func Accepted(d prefixid.Descriptor, candidate string) ParseResultDTO {
	r := ParseResultDTO{Candidate: candidate, Kind: d.Name, Valid: true}
	r.Prefix, r.Suffix, _ = d.Split(candidate)
	return r
}

// Rejected builds a result for a candidate that failed with err.
func Rejected(kind, candidate string, err error) ParseResultDTO {
	return ParseResultDTO{Candidate: candidate, Kind: kind, Valid: false, Error: err.Error()}
}

// CheckReportDTO is the output of `idkit check`.
type CheckReportDTO struct {
	Kind        string   `json:"kind"`
	Generated   int      `json:"generated"`
	Unique      int      `json:"unique"`
	Duplicates  []string `json:"duplicates"` // always present
	Alphabet    string   `json:"alphabet"`
	Length      int      `json:"length"`
	EntropyBits float64  `json:"entropy_bits"`
	MaxLength   int      `json:"max_length"`
	FitsColumn  bool     `json:"fits_column"`
}

// MintDTO represents a ledger row.
type MintDTO struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	Batch     string `json:"batch,omitempty"`
	CreatedAt string `json:"created_at"`
}

// FromMint converts a ledger row to a DTO
func FromMint(m ledger.Mint) MintDTO {
	dto := MintDTO{
		ID:        m.ID.String(),
		Kind:      m.Kind,
		Value:     m.Value,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.Batch.Valid {
		dto.Batch = m.Batch.ID.String()
	}
	return dto
}

// FromMints converts ledger rows in order.
func FromMints(ms []ledger.Mint) []MintDTO {
	out := make([]MintDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMint(m))
	}
	return out
}
