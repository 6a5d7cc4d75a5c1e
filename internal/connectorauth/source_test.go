package connectorauth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connector-harness/connector-auth/internal/testutil"
	"github.com/connector-harness/connector-auth/pkg/errors"
)

func TestFileSource_ExplicitPath(t *testing.T) {
	path := testutil.WriteAuthFile(t, testutil.SampleAuthTOML)
	t.Setenv(EnvAuthFilePath, "")

	data, err := NewFileSource(path).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleAuthTOML, string(data))
}

func TestFileSource_PathFromEnvironment(t *testing.T) {
	first := testutil.WriteAuthFile(t, "[stripe]\napi_key = \"first\"\n")
	second := filepath.Join(t.TempDir(), "other_auth.toml")
	require.NoError(t, os.WriteFile(second, []byte("[stripe]\napi_key = \"second\"\n"), 0o600))

	src := NewFileSource("")

	t.Setenv(EnvAuthFilePath, first)
	data, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")

	// the variable is resolved on every read
	t.Setenv(EnvAuthFilePath, second)
	data, err = src.Read(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
}

func TestFileSource_PathNotSet(t *testing.T) {
	t.Setenv(EnvAuthFilePath, "")

	src := NewFileSource("")
	_, err := src.Read(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAuthFilePathNotSet))
	assert.Equal(t, "file:<unset>", src.Name())
}

func TestFileSource_Unreadable(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.toml")).Read(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAuthFileUnreadable))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// a directory cannot be read as a file
	_, err = NewFileSource(dir).Read(context.Background())
	assert.True(t, errors.Is(err, errors.ErrAuthFileUnreadable))
}

func TestFileSource_Name(t *testing.T) {
	assert.Equal(t, "file:auth.toml", NewFileSource("auth.toml").Name())

	long := "/very/long/directory/tree/for/connectors/sample_auth.toml"
	name := NewFileSource(long).Name()
	assert.True(t, strings.HasPrefix(name, "file:..."))
	assert.True(t, strings.HasSuffix(name, "sample_auth.toml"))
	assert.NotContains(t, name, "/very/long")
}

func TestBytesSource(t *testing.T) {
	doc := []byte("[stripe]\napi_key = \"k\"\n")
	src := NewBytesSource("inline", doc)
	doc[0] = '#'

	data, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[stripe]\napi_key = \"k\"\n", string(data))
	assert.Equal(t, "inline", src.Name())

	data[0] = '#'
	again, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte('['), again[0])
}

func TestRedactPath(t *testing.T) {
	assert.Equal(t, "", redactPath(""))
	assert.Equal(t, "short.toml", redactPath("short.toml"))

	long := strings.Repeat("a", 30) + "tail"
	redacted := redactPath(long)
	assert.Len(t, redacted, 24)
	assert.True(t, strings.HasSuffix(redacted, "tail"))
}
