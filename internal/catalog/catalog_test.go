package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/idkit/internal/config"
	"github.com/zjrosen/idkit/prefixid"
)

var (
	userDesc  = prefixid.Descriptor{Name: "UserID", Prefix: "usr", Aliases: []string{"user"}}
	orderDesc = prefixid.Descriptor{Name: "OrderID", Prefix: "ord"}
)

func TestNew_RegistersAll(t *testing.T) {
	c, err := New(userDesc, orderDesc)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	require.Equal(t, []prefixid.Descriptor{orderDesc, userDesc}, c.List(), "List is sorted by name")
}

func TestRegister_Errors(t *testing.T) {
	c, err := New(userDesc)
	require.NoError(t, err)

	err = c.Register(prefixid.Descriptor{Name: "UserID", Prefix: "u"})
	require.ErrorIs(t, err, ErrDuplicateName)

	err = c.Register(prefixid.Descriptor{Name: "userid", Prefix: "u"})
	require.ErrorIs(t, err, ErrDuplicateName)
	require.Contains(t, err.Error(), "only by case")

	err = c.Register(prefixid.Descriptor{Name: "UsherID", Prefix: "usr"})
	require.ErrorIs(t, err, ErrPrefixConflict)

	err = c.Register(prefixid.Descriptor{Name: "LegacyUser", Prefix: "lu", Aliases: []string{"user"}})
	require.ErrorIs(t, err, ErrPrefixConflict)
	require.Contains(t, err.Error(), "belongs to UserID")

	err = c.Register(prefixid.Descriptor{Name: "Bad", Prefix: "toolong"})
	require.ErrorIs(t, err, prefixid.ErrInvalidPrefix)

	require.Equal(t, 1, c.Len(), "failed registrations must not leave partial state")
}

func TestRegister_Idempotent(t *testing.T) {
	c, err := New(userDesc)
	require.NoError(t, err)

	require.NoError(t, c.Register(prefixid.Descriptor{Name: "UserID", Prefix: "usr", Aliases: []string{"user"}}))
	require.Equal(t, 1, c.Len())
}

func TestLookup(t *testing.T) {
	c, err := New(userDesc, orderDesc)
	require.NoError(t, err)

	d, err := c.Lookup("OrderID")
	require.NoError(t, err)
	require.Equal(t, orderDesc, d)

	_, err = c.Lookup("orderid")
	require.ErrorIs(t, err, ErrNotFound)

	d, err = c.LookupFold("orderid")
	require.NoError(t, err)
	require.Equal(t, orderDesc, d)

	d, err = c.LookupFold("usr")
	require.NoError(t, err)
	require.Equal(t, userDesc, d)

	_, err = c.LookupFold("user")
	require.ErrorIs(t, err, ErrNotFound, "aliases do not name a kind")
}

func TestLookupFold_PrefixBeatsFoldedName(t *testing.T) {
	short := prefixid.Descriptor{Name: "Ord", Prefix: "o"}
	c, err := New(short, orderDesc)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		d, err := c.LookupFold("ORD")
		require.NoError(t, err)
		require.Equal(t, short, d)

		d, err = c.LookupFold("ord")
		require.NoError(t, err)
		require.Equal(t, orderDesc, d, "a primary prefix wins over a case-folded name")
	}
}

func TestResolve(t *testing.T) {
	c, err := New(userDesc, orderDesc)
	require.NoError(t, err)

	tests := []struct {
		name      string
		candidate string
		want      string
		wantErr   bool
	}{
		{name: "primary", candidate: "usr_V1StGXR8", want: "UserID"},
		{name: "alias", candidate: "user_V1StGXR8", want: "UserID"},
		{name: "other kind", candidate: "ord_1", want: "OrderID"},
		{name: "unknown prefix", candidate: "xyz_1", wantErr: true},
		{name: "no separator", candidate: "usr", wantErr: true},
		{name: "empty", candidate: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.Resolve(tt.candidate)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPrefix)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, d.Name)
			require.True(t, d.Match(tt.candidate))
		})
	}
}

func TestFromConfig(t *testing.T) {
	c, err := FromConfig(config.DefaultKinds())
	require.NoError(t, err)
	require.Equal(t, len(config.DefaultKinds()), c.Len())

	_, err = FromConfig([]config.KindConfig{{Name: "A", Prefix: "a"}, {Name: "B", Prefix: "a"}})
	require.ErrorIs(t, err, ErrPrefixConflict)
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	c, err := New(userDesc)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = c.Register(orderDesc)
				_, _ = c.Resolve("usr_x")
				_ = c.List()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 2, c.Len())
}
