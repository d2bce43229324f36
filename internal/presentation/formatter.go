package presentation

import (
	"encoding/json"
	"io"
)

// Formatter writes command results as indented JSON.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatKinds formats a list of kinds as JSON
func (f *Formatter) FormatKinds(kinds []KindDTO) error {
	return f.encode(kinds)
}

// FormatMinted formats the result of minting identifiers.
func (f *Formatter) FormatMinted(result MintedDTO) error {
	return f.encode(result)
}

// FormatParseResults formats one result per parsed candidate.
func (f *Formatter) FormatParseResults(results []ParseResultDTO) error {
	return f.encode(results)
}

// FormatCheckReport formats a collision check report.
func (f *Formatter) FormatCheckReport(report CheckReportDTO) error {
	return f.encode(report)
}

// FormatMints formats ledger rows.
func (f *Formatter) FormatMints(mints []MintDTO) error {
	if mints == nil {
		mints = []MintDTO{}
	}
	return f.encode(mints)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
