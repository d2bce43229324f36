package prefixid_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/idkit/prefixid"
)

func TestNewGenerator_Defaults(t *testing.T) {
	g, err := prefixid.NewGenerator()
	require.NoError(t, err)
	require.Equal(t, prefixid.DefaultAlphabet, g.Alphabet())
	require.Equal(t, prefixid.DefaultLength, g.Length())
}

func TestNewGenerator_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    []prefixid.Option
		wantErr error
	}{
		{name: "unambiguous alphabet", opts: []prefixid.Option{prefixid.WithAlphabet(prefixid.UnambiguousAlphabet), prefixid.WithLength(23)}},
		{name: "binary alphabet", opts: []prefixid.Option{prefixid.WithAlphabet("01")}},
		{name: "zero length", opts: []prefixid.Option{prefixid.WithLength(0)}, wantErr: prefixid.ErrInvalidLength},
		{name: "negative length", opts: []prefixid.Option{prefixid.WithLength(-3)}, wantErr: prefixid.ErrInvalidLength},
		{name: "single symbol", opts: []prefixid.Option{prefixid.WithAlphabet("a")}, wantErr: prefixid.ErrInvalidAlphabet},
		{name: "repeated symbol", opts: []prefixid.Option{prefixid.WithAlphabet("abca")}, wantErr: prefixid.ErrInvalidAlphabet},
		{name: "whitespace symbol", opts: []prefixid.Option{prefixid.WithAlphabet("ab c")}, wantErr: prefixid.ErrInvalidAlphabet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := prefixid.NewGenerator(tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, g)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, g)
		})
	}
}

func TestGenerator_SuffixUsesAlphabet(t *testing.T) {
	g, err := prefixid.NewGenerator(prefixid.WithAlphabet(prefixid.UnambiguousAlphabet), prefixid.WithLength(30))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		raw := g.Generate("tst")
		suffix := strings.TrimPrefix(raw, "tst_")
		require.Len(t, suffix, 30)
		for _, c := range suffix {
			require.True(t, strings.ContainsRune(prefixid.UnambiguousAlphabet, c), "unexpected %q in %q", c, raw)
		}
	}
}

func TestGenerate_PrefixTooLongPanics(t *testing.T) {
	require.Panics(t, func() { prefixid.Generate("users") })
	require.NotPanics(t, func() { prefixid.Generate("user") })
	require.NotPanics(t, func() { prefixid.Generate("") })
}

func TestSetDefaultGenerator(t *testing.T) {
	g, err := prefixid.NewGenerator(prefixid.WithAlphabet("ab"), prefixid.WithLength(8))
	require.NoError(t, err)

	prev := prefixid.SetDefaultGenerator(g)
	defer prefixid.SetDefaultGenerator(prev)

	id := prefixid.New[orderKind]()
	require.Len(t, id.Suffix(), 8)
	require.Empty(t, strings.Trim(id.Suffix(), "ab"))

	prefixid.SetDefaultGenerator(nil)
	require.Equal(t, prefixid.DefaultLength, prefixid.DefaultGenerator().Length())
}

func TestGenerate_Concurrent(t *testing.T) {
	const workers, perWorker = 16, 2000

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[UserID]struct{}, workers*perWorker)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]UserID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, prefixid.New[userKind]())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker, "concurrent generation produced duplicates")
}

func TestGenerate_NoCollisionsInOneMillion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping collision check in short mode")
	}

	const n = 1_000_000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		raw := prefixid.Generate("usr")
		_, dup := seen[raw]
		require.False(t, dup, "duplicate after %d ids: %s", i, raw)
		seen[raw] = struct{}{}
	}
}
