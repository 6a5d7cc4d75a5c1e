package check

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/connector-harness/connector-auth/pkg/errors"
)

func TestPrintShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain error",
			err:  stderrors.New("boom"),
			want: "error: boom\n",
		},
		{
			name: "title only",
			err:  errors.New(errors.ErrAuthFileMalformed, "failed to parse connector authentication file"),
			want: "error: failed to parse connector authentication file\n",
		},
		{
			name: "detail without messages",
			err: errors.Wrap(errors.ErrAuthFileUnreadable, stderrors.New("open auth.toml: permission denied"),
				"failed to read connector authentication file"),
			want: "error: failed to read connector authentication file\n" +
				"  open auth.toml: permission denied\n",
		},
		{
			name: "detail and messages",
			err: errors.New(errors.ErrAuthShapeMismatch, "shape mismatch").
				WithDetail("connector entries failing to decode: 2").
				WithField("errors", []string{"stripe: expected a table, got string", `checkout: missing field "api_secret"`}),
			want: "error: shape mismatch\n" +
				"  connector entries failing to decode: 2\n" +
				"  - stripe: expected a table, got string\n" +
				"  - checkout: missing field \"api_secret\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printShapeErrors(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
