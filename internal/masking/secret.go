// Package masking provides a string holder that never renders its content.
package masking

import (
	"fmt"
	"io"
	"strconv"
)

// Placeholder is rendered in place of a secret's value
const Placeholder = "***REDACTED***"

var placeholderJSON = []byte(strconv.Quote(Placeholder))

// Secret holds a sensitive string. Every textual rendering (fmt verbs,
// JSON, text marshaling, zap's Stringer path) yields Placeholder. The raw
// value is only reachable through Unmask.
type Secret struct {
	value string
}

// New wraps value as a Secret
func New(value string) Secret {
	return Secret{value: value}
}

// Unmask returns the raw value. Call it only where the plain credential is
// handed over, never for display.
func (s Secret) Unmask() string {
	return s.value
}

// IsEmpty reports whether the secret holds the empty string
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

// String implements fmt.Stringer
func (s Secret) String() string {
	return Placeholder
}

// GoString implements fmt.GoStringer
func (s Secret) GoString() string {
	return Placeholder
}

// Format implements fmt.Formatter so that no verb, %x and %d included,
// can reach the value.
func (s Secret) Format(f fmt.State, verb rune) {
	if verb == 'q' {
		_, _ = io.WriteString(f, strconv.Quote(Placeholder))
		return
	}
	_, _ = io.WriteString(f, Placeholder)
}

// MarshalJSON implements json.Marshaler
func (s Secret) MarshalJSON() ([]byte, error) {
	return placeholderJSON, nil
}

// MarshalText implements encoding.TextMarshaler
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(Placeholder), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It is how decoders
// populate a Secret from a TOML string.
func (s *Secret) UnmarshalText(text []byte) error {
	s.value = string(text)
	return nil
}
