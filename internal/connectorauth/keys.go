package connectorauth

import (
	"github.com/connector-harness/connector-auth/internal/authtype"
	"github.com/connector-harness/connector-auth/internal/masking"
)

// Wrapper is a typed credential record whose fields stay masked until
// converted into the canonical auth value.
type Wrapper interface {
	AuthType() authtype.AuthType
}

// HeaderKey holds a single API key
type HeaderKey struct {
	APIKey masking.Secret `toml:"api_key"`
}

// AuthType unmasks the key into an authtype.HeaderKey
func (k HeaderKey) AuthType() authtype.AuthType {
	return authtype.HeaderKey{
		APIKey: k.APIKey.Unmask(),
	}
}

// BodyKey holds an API key and one additional key
type BodyKey struct {
	APIKey masking.Secret `toml:"api_key"`
	Key1   masking.Secret `toml:"key1"`
}

// AuthType unmasks the keys into an authtype.BodyKey
func (k BodyKey) AuthType() authtype.AuthType {
	return authtype.BodyKey{
		APIKey: k.APIKey.Unmask(),
		Key1:   k.Key1.Unmask(),
	}
}

// SignatureKey holds an API key, one additional key and a signing secret
type SignatureKey struct {
	APIKey    masking.Secret `toml:"api_key"`
	Key1      masking.Secret `toml:"key1"`
	APISecret masking.Secret `toml:"api_secret"`
}

// AuthType unmasks the keys into an authtype.SignatureKey
func (k SignatureKey) AuthType() authtype.AuthType {
	return authtype.SignatureKey{
		APIKey:    k.APIKey.Unmask(),
		Key1:      k.Key1.Unmask(),
		APISecret: k.APISecret.Unmask(),
	}
}

// MultiAuthKey holds all four credential fields
type MultiAuthKey struct {
	APIKey    masking.Secret `toml:"api_key"`
	Key1      masking.Secret `toml:"key1"`
	APISecret masking.Secret `toml:"api_secret"`
	Key2      masking.Secret `toml:"key2"`
}

// AuthType unmasks the keys into an authtype.MultiAuthKey
func (k MultiAuthKey) AuthType() authtype.AuthType {
	return authtype.MultiAuthKey{
		APIKey:    k.APIKey.Unmask(),
		Key1:      k.Key1.Unmask(),
		APISecret: k.APISecret.Unmask(),
		Key2:      k.Key2.Unmask(),
	}
}
