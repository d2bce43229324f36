package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_DisabledByDefault(t *testing.T) {
	SetOutput(nil)
	require.NotPanics(t, func() { Info(CatCLI, "nothing to see") })
}

func TestLog_FormatsFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Warn(CatID, "bad id", "kind", "UserID", "candidate", "xyz_1")

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	require.Contains(t, line, "[WARN] [id] bad id kind=UserID candidate=xyz_1")
}

func TestLog_OrphanKey(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Debug(CatDB, "query", "table")

	require.Contains(t, buf.String(), "table=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	ErrorErr(CatDB, "insert failed", errors.New("disk full"), "table", "mints")
	ErrorErr(CatDB, "insert failed", nil)

	out := buf.String()
	require.Contains(t, out, "[ERROR] [db] insert failed table=mints error=disk full")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	SetMinLevel(LevelWarn)
	Info(CatCLI, "dropped")
	Error(CatCLI, "kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept")

	buf.Reset()
	SetEnabled(false)
	Error(CatCLI, "silenced")
	require.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelDebug, ParseLevel("bogus"))
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	cleanup, err := Init(path)
	require.NoError(t, err)
	defer SetOutput(nil)

	Info(CatConfig, "loaded", "path", "config.yaml")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] loaded path=config.yaml")
}
