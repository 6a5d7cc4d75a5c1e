package connectorauth

import (
	"fmt"
	"maps"
	"slices"

	"github.com/connector-harness/connector-auth/internal/authtype"
	"github.com/connector-harness/connector-auth/pkg/errors"
)

// Classify infers the auth shape of one entry of the auth document from
// which of api_key, key1, api_secret and key2 it contains:
//
//	api_key                             -> HeaderKey
//	api_key, key1                       -> BodyKey
//	api_key, key1, api_secret           -> SignatureKey
//	api_key, key1, api_secret, key2     -> MultiAuthKey
//	anything else, or not a table       -> NoKey
//
// Other keys in the table are ignored. A recognized field holding a
// non-string value is read as "". Neither case is reported: a broken entry
// only shows up when the connector test using it fails.
func Classify(value interface{}) authtype.AuthType {
	table, ok := value.(map[string]interface{})
	if !ok {
		return authtype.NoKey{}
	}

	apiKey, hasAPIKey := table[authtype.FieldAPIKey]
	key1, hasKey1 := table[authtype.FieldKey1]
	apiSecret, hasAPISecret := table[authtype.FieldAPISecret]
	key2, hasKey2 := table[authtype.FieldKey2]

	switch {
	case hasAPIKey && !hasKey1 && !hasAPISecret && !hasKey2:
		return authtype.HeaderKey{
			APIKey: asString(apiKey),
		}
	case hasAPIKey && hasKey1 && !hasAPISecret && !hasKey2:
		return authtype.BodyKey{
			APIKey: asString(apiKey),
			Key1:   asString(key1),
		}
	case hasAPIKey && hasKey1 && hasAPISecret && !hasKey2:
		return authtype.SignatureKey{
			APIKey:    asString(apiKey),
			Key1:      asString(key1),
			APISecret: asString(apiSecret),
		}
	case hasAPIKey && hasKey1 && hasAPISecret && hasKey2:
		return authtype.MultiAuthKey{
			APIKey:    asString(apiKey),
			Key1:      asString(key1),
			APISecret: asString(apiSecret),
			Key2:      asString(key2),
		}
	default:
		return authtype.NoKey{}
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// AuthenticationMap maps connector names to their classified auth value. It
// is never modified after construction and is safe for concurrent reads.
type AuthenticationMap struct {
	auths map[string]authtype.AuthType
}

// NewAuthenticationMap classifies every top-level entry of a parsed document
func NewAuthenticationMap(table map[string]interface{}) *AuthenticationMap {
	auths := make(map[string]authtype.AuthType, len(table))
	for name, value := range table {
		auths[name] = Classify(value)
	}
	return &AuthenticationMap{auths: auths}
}

// Inner returns the full mapping. The returned map is a copy.
func (m *AuthenticationMap) Inner() map[string]authtype.AuthType {
	return maps.Clone(m.auths)
}

// Get returns the auth value of one connector
func (m *AuthenticationMap) Get(connector string) (authtype.AuthType, bool) {
	auth, ok := m.auths[connector]
	return auth, ok
}

// Lookup is Get for callers that want an error naming the missing connector
func (m *AuthenticationMap) Lookup(connector string) (authtype.AuthType, error) {
	auth, ok := m.auths[connector]
	if !ok {
		return nil, errors.New(
			errors.ErrConnectorNotDefined,
			fmt.Sprintf("connector %q has no entry in the authentication file", connector),
		).WithField("connector", connector)
	}
	return auth, nil
}

// Connectors returns the connector names in sorted order
func (m *AuthenticationMap) Connectors() []string {
	return slices.Sorted(maps.Keys(m.auths))
}

// Len returns the number of connectors
func (m *AuthenticationMap) Len() int {
	return len(m.auths)
}
