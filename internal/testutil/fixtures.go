package testutil

// SampleAuthTOML is a well-formed auth document covering every shape. The
// values are fake.
const SampleAuthTOML = `
[stripe]
api_key = "sk_test_header"

[adyen]
api_key = "adyen_api_key"
key1 = "AdyenMerchantAccount"

[checkout]
api_key = "pk_checkout"
key1 = "checkout_processing_channel"
api_secret = "sk_checkout_secret"

[forte]
api_key = "forte_api_access_id"
key1 = "forte_organization_id"
api_secret = "forte_api_secure_key"
key2 = "forte_location_id"

[dummyconnector]
api_key = "dummy_key"

[automation_configs]
hs_base_url = "http://localhost:8080"
hs_api_key = "test_admin"
hs_test_browser = "firefox"
pypl_email = "buyer@example.com"
pypl_pass = "paypal-password"
run_minimum_steps = true
`

// DriftedAuthTOML mixes well-formed entries with entries the classifier
// cannot recognize.
const DriftedAuthTOML = `
stray = "not a table"

[stripe]
api_key = "sk_test_header"

[only_key1]
key1 = "onlykey1"

[gap]
api_key = "a"
key1 = "b"
key2 = "d"

[numeric]
api_key = 42
key1 = "merchant"

[extra]
api_key = "k"
region = "eu"
`

// MalformedAuthTOML is not valid TOML
const MalformedAuthTOML = `
[stripe
api_key = "sk_test_header"
`
