package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrAuthFilePathNotSet, "connector authentication file path not set")

	assert.NotNil(t, err)
	assert.Equal(t, ErrAuthFilePathNotSet, err.Code)
	assert.Equal(t, "connector authentication file path not set", err.Title)
	assert.Equal(t, 404, err.Status)
	assert.Contains(t, err.Type, "auth-file-path-not-set")
}

func TestWrap(t *testing.T) {
	cause := errors.New("toml: expected character =")
	err := Wrap(ErrAuthFileMalformed, cause, "failed to parse connector authentication file")

	assert.NotNil(t, err)
	assert.Equal(t, ErrAuthFileMalformed, err.Code)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, cause.Error(), err.Detail)
}

func TestErrorWithDetail(t *testing.T) {
	err := New(ErrAuthFilePathNotSet, "auth file path not set").
		WithDetail("set CONNECTOR_AUTH_FILE_PATH")

	assert.Equal(t, "set CONNECTOR_AUTH_FILE_PATH", err.Detail)
	assert.Equal(t, "auth file path not set: set CONNECTOR_AUTH_FILE_PATH", err.Error())
}

func TestErrorWithFields(t *testing.T) {
	err := New(ErrAuthShapeMismatch, "shape mismatch").
		WithField("connector", "stripe").
		WithFields(map[string]interface{}{"expected": "header_key"})

	assert.Equal(t, "stripe", err.Fields["connector"])
	assert.Equal(t, "header_key", err.Fields["expected"])
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(ErrInternal, "internal error").WithCause(cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{
			name:     "application error",
			err:      New(ErrAuthFileUnreadable, "unreadable"),
			wantCode: ErrAuthFileUnreadable,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			wantCode: ErrUnknown,
		},
		{
			name:     "wrapped by fmt",
			err:      wrapStd(New(ErrAuthShapeMismatch, "mismatch")),
			wantCode: ErrAuthShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, GetCode(tt.err))
			if tt.wantCode != ErrUnknown {
				assert.True(t, Is(tt.err, tt.wantCode))
			}
		})
	}
}

func TestRedact(t *testing.T) {
	err := New(ErrAuthShapeMismatch, "shape mismatch").
		WithCause(errors.New("boom")).
		WithField("connector", "checkout").
		WithField("api_key", "sk_live_123").
		WithField("api_secret", "shh").
		WithField("key1", "merchant")

	redacted := err.Redact()

	assert.Equal(t, "checkout", redacted.Fields["connector"])
	assert.NotContains(t, redacted.Fields, "api_key")
	assert.NotContains(t, redacted.Fields, "api_secret")
	assert.NotContains(t, redacted.Fields, "key1")
	assert.Nil(t, redacted.Cause)
	assert.Equal(t, err.Code, redacted.Code)
}

func TestIsSensitiveField(t *testing.T) {
	for _, name := range []string{"api_key", "API_SECRET", "key2", "pypl_pass", "hs_api_key", "token"} {
		assert.True(t, IsSensitiveField(name), name)
	}
	for _, name := range []string{"connector", "path", "kind", "count"} {
		assert.False(t, IsSensitiveField(name), name)
	}
}

func TestGetErrorInfo(t *testing.T) {
	info := GetErrorInfo(ErrorCode("NOPE"))
	assert.Equal(t, "Unknown Error", info.Title)
	assert.Equal(t, 500, info.Status)

	info = GetErrorInfo(ErrAuthFileMalformed)
	assert.Equal(t, 400, info.Status)
	assert.NotEmpty(t, info.Type)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrAuthFilePathNotSet))
	assert.True(t, IsFatal(ErrAuthFileUnreadable))
	assert.True(t, IsFatal(ErrAuthFileMalformed))
	assert.True(t, IsFatal(ErrAuthShapeMismatch))
	assert.False(t, IsFatal(ErrConfigInvalid))
}

func TestErrorMarshalJSON(t *testing.T) {
	err := New(ErrAuthFileUnreadable, "failed to read connector authentication file").
		WithCause(errors.New("no such file or directory")).
		WithField("path", ".../sample_auth.toml")

	data, jsonErr := err.MarshalJSON()
	require.NoError(t, jsonErr)

	jsonStr := string(data)
	assert.Contains(t, jsonStr, "ERR_AUTH_FILE_UNREADABLE")
	assert.Contains(t, jsonStr, "no such file or directory")
	assert.Contains(t, jsonStr, "sample_auth.toml")
}

type stdWrapper struct{ err error }

func (w stdWrapper) Error() string { return "context: " + w.err.Error() }
func (w stdWrapper) Unwrap() error { return w.err }

func wrapStd(err error) error { return stdWrapper{err: err} }
