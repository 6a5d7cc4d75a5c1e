package connectorauth

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connector-harness/connector-auth/internal/authtype"
	"github.com/connector-harness/connector-auth/internal/masking"
)

func TestWrapperAuthType(t *testing.T) {
	tests := []struct {
		name    string
		wrapper Wrapper
		want    authtype.AuthType
	}{
		{
			name:    "header key",
			wrapper: HeaderKey{APIKey: masking.New("h1")},
			want:    authtype.HeaderKey{APIKey: "h1"},
		},
		{
			name:    "body key",
			wrapper: BodyKey{APIKey: masking.New("b1"), Key1: masking.New("b2")},
			want:    authtype.BodyKey{APIKey: "b1", Key1: "b2"},
		},
		{
			name: "signature key",
			wrapper: SignatureKey{
				APIKey:    masking.New("s1"),
				Key1:      masking.New("s2"),
				APISecret: masking.New("s3"),
			},
			want: authtype.SignatureKey{APIKey: "s1", Key1: "s2", APISecret: "s3"},
		},
		{
			name: "multi auth key",
			wrapper: MultiAuthKey{
				APIKey:    masking.New("m1"),
				Key1:      masking.New("m2"),
				APISecret: masking.New("m3"),
				Key2:      masking.New("m4"),
			},
			want: authtype.MultiAuthKey{APIKey: "m1", Key1: "m2", APISecret: "m3", Key2: "m4"},
		},
		{
			name:    "empty values survive",
			wrapper: BodyKey{},
			want:    authtype.BodyKey{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.wrapper.AuthType())
		})
	}
}

func TestWrapperRendersRedacted(t *testing.T) {
	key := MultiAuthKey{
		APIKey:    masking.New("live_api_key"),
		Key1:      masking.New("live_key1"),
		APISecret: masking.New("live_api_secret"),
		Key2:      masking.New("live_key2"),
	}

	rendered := []string{
		fmt.Sprintf("%v", key),
		fmt.Sprintf("%+v", key),
		fmt.Sprintf("%#v", key),
		fmt.Sprintf("%v", &key),
	}
	data, err := json.Marshal(key)
	require.NoError(t, err)
	rendered = append(rendered, string(data))

	for _, out := range rendered {
		assert.NotContains(t, out, "live_")
		assert.Contains(t, out, masking.Placeholder)
	}
}
