// Package authtype defines the canonical authentication value handed to
// connector integrations under test.
package authtype

// Kind names the shape of an AuthType
type Kind string

const (
	KindNoKey        Kind = "no_key"
	KindHeaderKey    Kind = "header_key"
	KindBodyKey      Kind = "body_key"
	KindSignatureKey Kind = "signature_key"
	KindMultiAuthKey Kind = "multi_auth_key"
)

// Field names as they appear in connector auth files
const (
	FieldAPIKey    = "api_key"
	FieldKey1      = "key1"
	FieldAPISecret = "api_secret"
	FieldKey2      = "key2"
)

// AuthType is one of NoKey, HeaderKey, BodyKey, SignatureKey or
// MultiAuthKey. The set is closed: each variant carries the fields of the
// previous one plus one more.
type AuthType interface {
	// Kind reports the variant
	Kind() Kind

	// Fields lists the auth file field names the variant carries, in
	// nesting order. It never exposes values.
	Fields() []string

	isAuthType()
}

// NoKey is used for connectors without credentials, and for entries whose
// shape could not be recognized.
type NoKey struct{}

// HeaderKey carries a single API key
type HeaderKey struct {
	APIKey string
}

// BodyKey carries an API key and one additional key
type BodyKey struct {
	APIKey string
	Key1   string
}

// SignatureKey carries an API key, one additional key and a signing secret
type SignatureKey struct {
	APIKey    string
	Key1      string
	APISecret string
}

// MultiAuthKey carries all four credential fields
type MultiAuthKey struct {
	APIKey    string
	Key1      string
	APISecret string
	Key2      string
}

func (NoKey) Kind() Kind        { return KindNoKey }
func (HeaderKey) Kind() Kind    { return KindHeaderKey }
func (BodyKey) Kind() Kind      { return KindBodyKey }
func (SignatureKey) Kind() Kind { return KindSignatureKey }
func (MultiAuthKey) Kind() Kind { return KindMultiAuthKey }

func (NoKey) Fields() []string { return nil }

func (HeaderKey) Fields() []string { return []string{FieldAPIKey} }

func (BodyKey) Fields() []string { return []string{FieldAPIKey, FieldKey1} }

func (SignatureKey) Fields() []string {
	return []string{FieldAPIKey, FieldKey1, FieldAPISecret}
}

func (MultiAuthKey) Fields() []string {
	return []string{FieldAPIKey, FieldKey1, FieldAPISecret, FieldKey2}
}

func (NoKey) isAuthType()        {}
func (HeaderKey) isAuthType()    {}
func (BodyKey) isAuthType()      {}
func (SignatureKey) isAuthType() {}
func (MultiAuthKey) isAuthType() {}

// Kinds lists every kind from the empty shape to the widest one
func Kinds() []Kind {
	return []Kind{KindNoKey, KindHeaderKey, KindBodyKey, KindSignatureKey, KindMultiAuthKey}
}
