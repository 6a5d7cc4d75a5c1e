package connectorauth

import (
	"context"
	"os"

	"github.com/connector-harness/connector-auth/pkg/errors"
)

// EnvAuthFilePath names the environment variable holding the auth file path,
// e.g. export CONNECTOR_AUTH_FILE_PATH="/harness/tests/connectors/sample_auth.toml"
const EnvAuthFilePath = "CONNECTOR_AUTH_FILE_PATH"

// Source supplies the raw connector auth document. Every Read goes back to
// the underlying storage; sources do not cache.
type Source interface {
	// Name identifies the source in logs and spans. It must not contain
	// credential material.
	Name() string

	// Read returns the raw TOML document
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads the auth document from a file. When Path is empty the
// path is taken from EnvAuthFilePath at read time.
type FileSource struct {
	Path string
}

// NewFileSource creates a file source. An empty path defers to the
// environment.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name returns the tail of the file path
func (s *FileSource) Name() string {
	path, err := s.resolvePath()
	if err != nil {
		return "file:<unset>"
	}
	return "file:" + redactPath(path)
}

// Read reads the whole file
func (s *FileSource) Read(_ context.Context) ([]byte, error) {
	path, err := s.resolvePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(
			errors.ErrAuthFileUnreadable,
			err,
			"failed to read connector authentication file",
		).WithField("path", redactPath(path))
	}
	return data, nil
}

func (s *FileSource) resolvePath() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	if path := os.Getenv(EnvAuthFilePath); path != "" {
		return path, nil
	}
	return "", errors.New(
		errors.ErrAuthFilePathNotSet,
		"connector authentication file path not set",
	).WithDetail("set the " + EnvAuthFilePath + " environment variable to the auth TOML file")
}

// BytesSource serves an in-memory document
type BytesSource struct {
	name string
	data []byte
}

// NewBytesSource creates a source returning a copy of data on each read
func NewBytesSource(name string, data []byte) *BytesSource {
	return &BytesSource{name: name, data: append([]byte(nil), data...)}
}

// Name returns the name given at construction
func (s *BytesSource) Name() string {
	return s.name
}

// Read returns a copy of the document
func (s *BytesSource) Read(_ context.Context) ([]byte, error) {
	return append([]byte(nil), s.data...), nil
}

// redactPath keeps only the tail of long paths for logs and errors
func redactPath(path string) string {
	if path == "" {
		return ""
	}
	if len(path) > 24 {
		return "..." + path[len(path)-21:]
	}
	return path
}
