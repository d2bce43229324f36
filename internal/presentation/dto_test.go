package presentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/idkit/internal/ledger"
	"github.com/zjrosen/idkit/prefixid"
)

var userDesc = prefixid.Descriptor{Name: "UserID", Prefix: "usr", Aliases: []string{"user"}}

func TestFromDescriptor_AliasesAlwaysPresent(t *testing.T) {
	dto := FromDescriptor(prefixid.Descriptor{Name: "OrderID", Prefix: "ord"})
	require.NotNil(t, dto.Aliases)

	data, err := json.Marshal(dto)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"OrderID","prefix":"ord","aliases":[]}`, string(data))
}

func TestAccepted_SplitsOnMatchedPrefix(t *testing.T) {
	tests := []struct {
		candidate  string
		wantPrefix string
		wantSuffix string
	}{
		{"usr_abc", "usr", "abc"},
		{"user_abc", "user", "abc"},
		{"usr_a_b", "usr", "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			r := Accepted(userDesc, tt.candidate)
			require.True(t, r.Valid)
			require.Equal(t, "UserID", r.Kind)
			require.Equal(t, tt.wantPrefix, r.Prefix)
			require.Equal(t, tt.wantSuffix, r.Suffix)
		})
	}
}

func TestRejected(t *testing.T) {
	r := Rejected("UserID", "ord_1", errors.New("invalid `UserID`"))
	require.False(t, r.Valid)
	require.Equal(t, "invalid `UserID`", r.Error)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"candidate":"ord_1","kind":"UserID","valid":false,"error":"invalid `+"`UserID`"+`"}`, string(data))
}

func TestFromMint(t *testing.T) {
	batch := ledger.NewBatchID()
	id, err := ledger.ParseMintID("mnt_1")
	require.NoError(t, err)

	m := ledger.Mint{
		ID:        id,
		Kind:      "UserID",
		Value:     "usr_1",
		Batch:     prefixid.NullOf(batch),
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	dto := FromMint(m)
	require.Equal(t, "mnt_1", dto.ID)
	require.Equal(t, batch.String(), dto.Batch)
	require.Equal(t, "2024-03-01T10:00:00Z", dto.CreatedAt)

	m.Batch = ledger.NullBatchID{}
	require.Empty(t, FromMint(m).Batch)
}

func TestFormatter_IndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	require.NoError(t, f.FormatKinds(FromDescriptors([]prefixid.Descriptor{userDesc})))
	require.Equal(t, "[\n  {\n    \"name\": \"UserID\",\n    \"prefix\": \"usr\",\n    \"aliases\": [\n      \"user\"\n    ]\n  }\n]\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatMints(nil))
	require.Equal(t, "[]\n", buf.String())
}
