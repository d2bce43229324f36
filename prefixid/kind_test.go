package prefixid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/idkit/prefixid"
)

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		desc    prefixid.Descriptor
		wantErr bool
	}{
		{name: "valid", desc: prefixid.Descriptor{Name: "UserID", Prefix: "usr"}},
		{name: "valid with aliases", desc: prefixid.Descriptor{Name: "UserID", Prefix: "usr", Aliases: []string{"user", "u"}}},
		{name: "four characters", desc: prefixid.Descriptor{Name: "Acct", Prefix: "acct"}},
		{name: "empty name", desc: prefixid.Descriptor{Prefix: "usr"}, wantErr: true},
		{name: "empty prefix", desc: prefixid.Descriptor{Name: "UserID"}, wantErr: true},
		{name: "prefix too long", desc: prefixid.Descriptor{Name: "UserID", Prefix: "users"}, wantErr: true},
		{name: "alias too long", desc: prefixid.Descriptor{Name: "UserID", Prefix: "usr", Aliases: []string{"users"}}, wantErr: true},
		{name: "separator in prefix", desc: prefixid.Descriptor{Name: "UserID", Prefix: "u_r"}, wantErr: true},
		{name: "space in prefix", desc: prefixid.Descriptor{Name: "UserID", Prefix: "u r"}, wantErr: true},
		{name: "non-ascii prefix", desc: prefixid.Descriptor{Name: "UserID", Prefix: "ü"}, wantErr: true},
		{name: "alias repeats primary", desc: prefixid.Descriptor{Name: "UserID", Prefix: "usr", Aliases: []string{"usr"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, prefixid.ErrInvalidPrefix)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDescriptor_GenerateAndParse(t *testing.T) {
	d := prefixid.Descriptor{Name: "InvoiceID", Prefix: "inv", Aliases: []string{"bill"}}

	raw := d.Generate()
	require.True(t, strings.HasPrefix(raw, "inv_"))

	got, err := d.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = d.Parse("bill_legacy")
	require.NoError(t, err)
	require.Equal(t, "bill_legacy", got)

	restore := prefixid.SetObserver(nil)
	defer prefixid.SetObserver(restore)

	_, err = d.Parse("usr_abc")
	require.EqualError(t, err, "invalid `InvoiceID`, expected identifier to start with `inv` or `bill`")
}

func TestDescriptor_Match(t *testing.T) {
	var calls int
	restore := prefixid.SetObserver(func(prefixid.ParseFailure) { calls++ })
	defer prefixid.SetObserver(restore)

	d := prefixid.DescriptorOf[userKind]()
	require.True(t, d.Match("usr_1"))
	require.True(t, d.Match("user_1"))
	require.False(t, d.Match("ord_1"))
	require.Zero(t, calls, "Match must not notify the observer")
}

func TestDescriptor_Split(t *testing.T) {
	var calls int
	restore := prefixid.SetObserver(func(prefixid.ParseFailure) { calls++ })
	defer prefixid.SetObserver(restore)

	d := prefixid.DescriptorOf[userKind]()

	tests := []struct {
		candidate  string
		wantPrefix string
		wantSuffix string
		wantOK     bool
	}{
		{candidate: "usr_V1StGXR8", wantPrefix: "usr", wantSuffix: "V1StGXR8", wantOK: true},
		{candidate: "user_x_y", wantPrefix: "user", wantSuffix: "x_y", wantOK: true},
		{candidate: "usr_", wantPrefix: "usr", wantSuffix: "", wantOK: true},
		{candidate: "usrx_1"},
		{candidate: "usr"},
		{candidate: ""},
	}
	for _, tt := range tests {
		prefix, suffix, ok := d.Split(tt.candidate)
		require.Equal(t, tt.wantOK, ok, tt.candidate)
		require.Equal(t, tt.wantPrefix, prefix, tt.candidate)
		require.Equal(t, tt.wantSuffix, suffix, tt.candidate)
		require.Equal(t, d.Match(tt.candidate), ok, "Split and Match agree on %q", tt.candidate)
	}
	require.Zero(t, calls)
}
