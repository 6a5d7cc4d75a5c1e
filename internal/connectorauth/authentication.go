package connectorauth

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/connector-harness/connector-auth/internal/authtype"
	"github.com/connector-harness/connector-auth/internal/masking"
	"github.com/connector-harness/connector-auth/pkg/errors"
)

// Authentication is the fixed per-connector auth record. A nil field means the
// connector has no entry in the auth file.
type Authentication struct {
	Aci             *BodyKey      `toml:"aci"`
	Adyen           *BodyKey      `toml:"adyen"`
	AdyenUK         *BodyKey      `toml:"adyen_uk"`
	Airwallex       *BodyKey      `toml:"airwallex"`
	Authorizedotnet *BodyKey      `toml:"authorizedotnet"`
	Bambora         *BodyKey      `toml:"bambora"`
	Bitpay          *HeaderKey    `toml:"bitpay"`
	Bluesnap        *BodyKey      `toml:"bluesnap"`
	Cashtocode      *BodyKey      `toml:"cashtocode"`
	Checkout        *SignatureKey `toml:"checkout"`
	Coinbase        *HeaderKey    `toml:"coinbase"`
	Cryptopay       *BodyKey      `toml:"cryptopay"`
	Cybersource     *SignatureKey `toml:"cybersource"`
	Dlocal          *SignatureKey `toml:"dlocal"`
	// DummyConnector is only decoded when FeatureDummyConnector is enabled
	DummyConnector *HeaderKey    `toml:"dummyconnector"`
	Fiserv         *SignatureKey `toml:"fiserv"`
	Forte          *MultiAuthKey `toml:"forte"`
	Globalpay      *BodyKey      `toml:"globalpay"`
	Globepay       *BodyKey      `toml:"globepay"`
	Iatapay        *SignatureKey `toml:"iatapay"`
	Mollie         *BodyKey      `toml:"mollie"`
	Multisafepay   *HeaderKey    `toml:"multisafepay"`
	Nexinets       *BodyKey      `toml:"nexinets"`
	Noon           *SignatureKey `toml:"noon"`
	Nmi            *HeaderKey    `toml:"nmi"`
	Nuvei          *SignatureKey `toml:"nuvei"`
	Opayo          *HeaderKey    `toml:"opayo"`
	Opennode       *HeaderKey    `toml:"opennode"`
	Payeezy        *SignatureKey `toml:"payeezy"`
	Payme          *BodyKey      `toml:"payme"`
	Paypal         *BodyKey      `toml:"paypal"`
	Payu           *BodyKey      `toml:"payu"`
	Powertranz     *BodyKey      `toml:"powertranz"`
	Rapyd          *BodyKey      `toml:"rapyd"`
	Shift4         *HeaderKey    `toml:"shift4"`
	Stripe         *HeaderKey    `toml:"stripe"`
	StripeAU       *HeaderKey    `toml:"stripe_au"`
	StripeUK       *HeaderKey    `toml:"stripe_uk"`
	Trustpay       *SignatureKey `toml:"trustpay"`
	Tsys           *SignatureKey `toml:"tsys"`
	Worldpay       *BodyKey      `toml:"worldpay"`
	Worldline      *SignatureKey `toml:"worldline"`
	Zen            *HeaderKey    `toml:"zen"`

	AutomationConfigs *AutomationConfigs `toml:"automation_configs"`
}

// AutomationConfigs holds settings for browser-driven connector tests
type AutomationConfigs struct {
	HsBaseURL                  *string         `toml:"hs_base_url"`
	HsAPIKey                   *masking.Secret `toml:"hs_api_key"`
	HsTestBrowser              *string         `toml:"hs_test_browser"`
	ChromeProfilePath          *string         `toml:"chrome_profile_path"`
	FirefoxProfilePath         *string         `toml:"firefox_profile_path"`
	PaypalEmail                *string         `toml:"pypl_email"`
	PaypalPass                 *masking.Secret `toml:"pypl_pass"`
	GmailEmail                 *string         `toml:"gmail_email"`
	GmailPass                  *masking.Secret `toml:"gmail_pass"`
	ConfigsURL                 *string         `toml:"configs_url"`
	StripePubKey               *string         `toml:"stripe_pub_key"`
	TestcasesPath              *string         `toml:"testcases_path"`
	BluesnapGatewayMerchantID  *string         `toml:"bluesnap_gateway_merchant_id"`
	GlobalpayGatewayMerchantID *string         `toml:"globalpay_gateway_merchant_id"`
	RunMinimumSteps            *bool           `toml:"run_minimum_steps"`
	AirwallexMerchantName      *string         `toml:"airwallex_merchant_name"`
}

const automationConfigsKey = "automation_configs"

// featureGated lists the connectors that only exist under a build feature
var featureGated = map[string]Feature{
	"dummyconnector": FeatureDummyConnector,
}

// connectorField describes one wrapper field of Authentication
type connectorField struct {
	name  string
	index int
	kind  authtype.Kind
}

var (
	wrapperType    = reflect.TypeOf((*Wrapper)(nil)).Elem()
	secretType     = reflect.TypeOf(masking.Secret{})
	connectorIndex = buildConnectorIndex()
)

func buildConnectorIndex() map[string]connectorField {
	index := make(map[string]connectorField)
	t := reflect.TypeOf(Authentication{})
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() != reflect.Ptr || !field.Type.Implements(wrapperType) {
			continue
		}
		zero := reflect.New(field.Type.Elem()).Interface().(Wrapper)
		name := field.Tag.Get("toml")
		index[name] = connectorField{
			name:  name,
			index: i,
			kind:  zero.AuthType().Kind(),
		}
	}
	return index
}

// KnownConnectors lists the connectors of the static record in sorted order
func KnownConnectors() []string {
	names := make([]string, 0, len(connectorIndex))
	for name := range connectorIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpectedKind returns the auth shape the static record expects for a
// connector
func ExpectedKind(connector string) (authtype.Kind, bool) {
	field, ok := connectorIndex[connector]
	return field.kind, ok
}

// Wrapper returns the typed record of a connector, nil when absent
func (a *Authentication) Wrapper(connector string) Wrapper {
	field, ok := connectorIndex[connector]
	if !ok {
		return nil
	}
	v := reflect.ValueOf(a).Elem().Field(field.index)
	if v.IsNil() {
		return nil
	}
	return v.Interface().(Wrapper)
}

// AuthType converts the named connector's record into its canonical value.
// Absent connectors yield NoKey and false.
func (a *Authentication) AuthType(connector string) (authtype.AuthType, bool) {
	w := a.Wrapper(connector)
	if w == nil {
		return authtype.NoKey{}, false
	}
	return w.AuthType(), true
}

// Connectors lists the connectors that have an entry, in sorted order
func (a *Authentication) Connectors() []string {
	var names []string
	for _, name := range KnownConnectors() {
		if a.Wrapper(name) != nil {
			names = append(names, name)
		}
	}
	return names
}

// decodeAuthentication decodes a parsed auth document into Authentication.
// Unknown top-level entries and unknown fields are ignored; a wrapper entry
// that is not a table, has a non-string field or lacks a field fails.
func decodeAuthentication(table map[string]interface{}, features Features) (*Authentication, error) {
	var (
		result *multierror.Error
		failed = make(map[string]struct{})
	)
	fail := func(connector string, err error) {
		if connector != "" {
			failed[connector] = struct{}{}
		}
		result = multierror.Append(result, err)
	}

	input := make(map[string]interface{}, len(table))
	for _, name := range sortedKeys(table) {
		value := table[name]
		if feature, gated := featureGated[name]; gated && !features.Enabled(feature) {
			continue
		}
		// A bare value in place of a connector table is usually the key
		// itself; keep it out of the decoder so it cannot end up in an
		// error message.
		if _, isConnector := connectorIndex[name]; isConnector {
			if _, isTable := value.(map[string]interface{}); !isTable {
				fail(name, fmt.Errorf("%s: expected a table, got %T", name, value))
				continue
			}
		}
		input[name] = value
	}

	var (
		auth     Authentication
		metadata mapstructure.Metadata
	)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "toml",
		Result:     &auth,
		Metadata:   &metadata,
		DecodeHook: secretDecodeHook,
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, err, "failed to create auth decoder")
	}

	if err := decoder.Decode(input); err != nil {
		for _, fieldErr := range splitDecodeError(err) {
			fail(fieldErrorEntry(fieldErr))
		}
	}

	sort.Strings(metadata.Unset)
	for _, key := range metadata.Unset {
		connector, field, nested := strings.Cut(key, ".")
		if !nested || connector == automationConfigsKey {
			continue
		}
		if _, ok := connectorIndex[connector]; !ok {
			continue
		}
		fail(connector, fmt.Errorf("%s: missing field %q", connector, field))
	}

	if err := result.ErrorOrNil(); err != nil {
		messages := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			messages = append(messages, e.Error())
		}
		appErr := errors.Wrap(
			errors.ErrAuthShapeMismatch,
			err,
			"connector authentication file does not match the expected connector shapes",
		).WithDetail(fmt.Sprintf("connector entries failing to decode: %d", len(failed))).
			WithField("errors", messages)
		if len(failed) == 1 {
			for connector := range failed {
				appErr.WithField("connector", connector)
			}
		}
		return nil, appErr
	}

	return &auth, nil
}

// splitDecodeError breaks a mapstructure error into one error per failed
// field. mapstructure joins field errors struct by struct and wraps the
// result once more at the top.
func splitDecodeError(err error) []error {
	switch e := err.(type) {
	case *mapstructure.DecodeError:
		return []error{e}
	case interface{ Unwrap() []error }:
		var out []error
		for _, inner := range e.Unwrap() {
			out = append(out, splitDecodeError(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		if inner := e.Unwrap(); inner != nil {
			return splitDecodeError(inner)
		}
	}
	return []error{err}
}

// fieldErrorEntry names the connector a field error belongs to and rewrites
// it into the "<connector>: ..." form of the other shape errors.
func fieldErrorEntry(err error) (string, error) {
	decodeErr, ok := err.(*mapstructure.DecodeError)
	if !ok {
		return "", err
	}
	connector, field, nested := strings.Cut(decodeErr.Name(), ".")
	if !nested {
		return connector, fmt.Errorf("%s: %w", connector, decodeErr.Unwrap())
	}
	return connector, fmt.Errorf("%s: field %q %w", connector, field, decodeErr.Unwrap())
}

func sortedKeys(table map[string]interface{}) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// secretDecodeHook builds masking.Secret values from strings and rejects
// anything else, so a table or number never decodes into an empty secret.
func secretDecodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != secretType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string, got %s", from)
	}
	return masking.New(s), nil
}
