package connectorauth

import (
	"context"

	"github.com/pelletier/go-toml/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/connector-harness/connector-auth/pkg/errors"
	"github.com/connector-harness/connector-auth/pkg/logger"
	"github.com/connector-harness/connector-auth/pkg/metrics"
	"github.com/connector-harness/connector-auth/pkg/tracing"
)

const tracerName = "github.com/connector-harness/connector-auth/internal/connectorauth"

// Loader builds connector authentication material from a Source.
//
// The two methods are independent read paths over the same source: each call
// reads and parses the document again, and their results are never
// reconciled with each other.
type Loader interface {
	// LoadAuthenticationMap classifies every entry by the credential fields
	// it carries. Unrecognized entries degrade to authtype.NoKey.
	LoadAuthenticationMap(ctx context.Context) (*AuthenticationMap, error)

	// LoadAuthentication decodes the document into the fixed per-connector
	// record. Entries that do not match their connector's shape fail the
	// whole load.
	LoadAuthentication(ctx context.Context) (*Authentication, error)
}

// DefaultLoader implements Loader
type DefaultLoader struct {
	source   Source
	logger   logger.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	features Features
}

// Option configures a DefaultLoader
type Option func(*DefaultLoader)

// WithSource sets the document source. Defaults to a FileSource resolving
// its path from CONNECTOR_AUTH_FILE_PATH.
func WithSource(source Source) Option {
	return func(l *DefaultLoader) {
		l.source = source
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(l *DefaultLoader) {
		l.logger = log
	}
}

// WithMetrics enables load metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *DefaultLoader) {
		l.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(tracer trace.Tracer) Option {
	return func(l *DefaultLoader) {
		l.tracer = tracer
	}
}

// WithFeatures overrides the link-time build features
func WithFeatures(features Features) Option {
	return func(l *DefaultLoader) {
		l.features = features
	}
}

// NewLoader creates a loader
func NewLoader(opts ...Option) Loader {
	l := &DefaultLoader{
		source:   NewFileSource(""),
		logger:   logger.Nop(),
		tracer:   otel.Tracer(tracerName),
		features: DefaultFeatures(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAuthenticationMap implements Loader
func (l *DefaultLoader) LoadAuthenticationMap(ctx context.Context) (_ *AuthenticationMap, err error) {
	ctx, span := l.startSpan(ctx, "connectorauth.LoadAuthenticationMap")
	timer := metrics.NewTimer()
	defer func() { l.finish(span, metrics.LoaderClassifier, timer, err) }()

	log := l.logger.WithContext(ctx).With(logger.String("loader", metrics.LoaderClassifier))

	table, err := l.readTable(ctx)
	if err != nil {
		log.Error("Failed to load connector authentication", logger.Error(err))
		return nil, err
	}

	authMap := NewAuthenticationMap(table)
	for _, name := range authMap.Connectors() {
		auth, _ := authMap.Get(name)
		log.Debug("Classified connector",
			logger.String("connector", name),
			logger.String("kind", string(auth.Kind())),
		)
		if l.metrics != nil {
			l.metrics.RecordEntry(string(auth.Kind()))
		}
	}

	tracing.SetAttributes(ctx, attribute.Int("connectors", authMap.Len()))
	log.Info("Loaded connector authentication map", logger.Int("connectors", authMap.Len()))
	return authMap, nil
}

// LoadAuthentication implements Loader
func (l *DefaultLoader) LoadAuthentication(ctx context.Context) (_ *Authentication, err error) {
	ctx, span := l.startSpan(ctx, "connectorauth.LoadAuthentication")
	timer := metrics.NewTimer()
	defer func() { l.finish(span, metrics.LoaderStatic, timer, err) }()

	log := l.logger.WithContext(ctx).With(logger.String("loader", metrics.LoaderStatic))

	table, err := l.readTable(ctx)
	if err != nil {
		log.Error("Failed to load connector authentication", logger.Error(err))
		return nil, err
	}

	auth, err := decodeAuthentication(table, l.features)
	if err != nil {
		log.Error("Connector authentication does not match the expected shapes", logger.Error(err))
		return nil, err
	}

	configured := auth.Connectors()
	tracing.SetAttributes(ctx, attribute.Int("connectors", len(configured)))
	log.Info("Loaded connector authentication",
		logger.Int("connectors", len(configured)),
		logger.Strings("features", l.features.List()),
	)
	return auth, nil
}

// readTable reads and parses the source. Both load paths call it on their
// own, so each load sees the document as it is at that moment.
func (l *DefaultLoader) readTable(ctx context.Context) (map[string]interface{}, error) {
	data, err := l.source.Read(ctx)
	if err != nil {
		return nil, err
	}

	var table map[string]interface{}
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(
			errors.ErrAuthFileMalformed,
			err,
			"failed to parse connector authentication file",
		).WithField("source", l.source.Name())
	}
	tracing.AddEvent(ctx, "parsed")
	return table, nil
}

func (l *DefaultLoader) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("source", l.source.Name())),
	)
}

func (l *DefaultLoader) finish(span trace.Span, loader string, timer *metrics.Timer, err error) {
	tracing.EndSpan(span, err)
	if l.metrics == nil {
		return
	}
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		l.metrics.RecordLoadError(loader, string(errors.GetCode(err)))
	}
	l.metrics.RecordLoad(loader, status, timer.ObserveDuration())
}

// LoadAuthenticationMap loads the classified map from the file named by
// CONNECTOR_AUTH_FILE_PATH unless WithSource says otherwise.
func LoadAuthenticationMap(ctx context.Context, opts ...Option) (*AuthenticationMap, error) {
	return NewLoader(opts...).LoadAuthenticationMap(ctx)
}

// LoadAuthentication loads the static record from the file named by
// CONNECTOR_AUTH_FILE_PATH unless WithSource says otherwise.
func LoadAuthentication(ctx context.Context, opts ...Option) (*Authentication, error) {
	return NewLoader(opts...).LoadAuthentication(ctx)
}

// MustLoadAuthenticationMap is LoadAuthenticationMap for test setup code:
// it panics when the auth material cannot be produced.
func MustLoadAuthenticationMap(ctx context.Context, opts ...Option) *AuthenticationMap {
	authMap, err := LoadAuthenticationMap(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return authMap
}

// MustLoadAuthentication is LoadAuthentication for test setup code: it
// panics when the auth material cannot be produced.
func MustLoadAuthentication(ctx context.Context, opts ...Option) *Authentication {
	auth, err := LoadAuthentication(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return auth
}
