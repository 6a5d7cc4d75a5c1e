package connectorauth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/connector-harness/connector-auth/pkg/errors"
)

// Feature is a build feature that adds connectors to the static record
type Feature string

// FeatureDummyConnector enables the dummyconnector entry
const FeatureDummyConnector Feature = "dummy_connector"

var knownFeatures = map[Feature]struct{}{
	FeatureDummyConnector: {},
}

// defaultFeatures is set at link time:
//
//	go build -ldflags "-X github.com/connector-harness/connector-auth/internal/connectorauth.defaultFeatures=dummy_connector"
var defaultFeatures = ""

// Features is an immutable set of enabled build features
type Features struct {
	enabled map[Feature]struct{}
}

// NewFeatures builds a feature set. Unknown features are kept, ParseFeatures
// is the validating entry point.
func NewFeatures(features ...Feature) Features {
	enabled := make(map[Feature]struct{}, len(features))
	for _, f := range features {
		enabled[f] = struct{}{}
	}
	return Features{enabled: enabled}
}

// ParseFeatures parses a comma-separated feature list
func ParseFeatures(s string) (Features, error) {
	var features []Feature
	for _, part := range strings.Split(s, ",") {
		name := Feature(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, ok := knownFeatures[name]; !ok {
			return Features{}, errors.New(
				errors.ErrFeatureUnknown,
				fmt.Sprintf("unknown build feature %q", name),
			).WithField("feature", string(name)).
				WithField("known", KnownFeatures())
		}
		features = append(features, name)
	}
	return NewFeatures(features...), nil
}

// DefaultFeatures returns the features enabled at build time
func DefaultFeatures() Features {
	features, err := ParseFeatures(defaultFeatures)
	if err != nil {
		panic(fmt.Sprintf("invalid link-time feature list: %v", err))
	}
	return features
}

// Enabled reports whether f is in the set
func (f Features) Enabled(feature Feature) bool {
	_, ok := f.enabled[feature]
	return ok
}

// Union returns a set enabling the features of both f and other
func (f Features) Union(other Features) Features {
	enabled := make(map[Feature]struct{}, len(f.enabled)+len(other.enabled))
	for feature := range f.enabled {
		enabled[feature] = struct{}{}
	}
	for feature := range other.enabled {
		enabled[feature] = struct{}{}
	}
	return Features{enabled: enabled}
}

// List returns the enabled features in sorted order
func (f Features) List() []string {
	out := make([]string, 0, len(f.enabled))
	for feature := range f.enabled {
		out = append(out, string(feature))
	}
	sort.Strings(out)
	return out
}

// KnownFeatures lists every feature name the loader understands
func KnownFeatures() []string {
	out := make([]string, 0, len(knownFeatures))
	for feature := range knownFeatures {
		out = append(out, string(feature))
	}
	sort.Strings(out)
	return out
}
