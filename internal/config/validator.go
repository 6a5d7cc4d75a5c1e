package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/connector-harness/connector-auth/pkg/errors"
)

var (
	validate *validator.Validate

	metricNamespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("metric_namespace", func(fl validator.FieldLevel) bool {
		return metricNamespacePattern.MatchString(fl.Field().String())
	})
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config == nil {
		return errors.New(errors.ErrConfigInvalid, "configuration is nil")
	}

	// Validate struct tags
	if err := validate.Struct(config); err != nil {
		return formatValidationError(err)
	}

	if config.Metrics.Enabled && config.Metrics.Namespace == "" {
		return errors.New(
			errors.ErrConfigMissingField,
			"metrics namespace is required when metrics are enabled",
		).WithField("field", "metrics.namespace")
	}

	if _, err := config.FeatureSet(); err != nil {
		return err
	}

	return nil
}

// formatValidationError formats validator errors into application errors
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(
			errors.ErrValidationFailed,
			err,
			"validation failed",
		)
	}

	// Get the first validation error for simplicity
	if len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return errors.New(
			errors.ErrValidationFailed,
			fmt.Sprintf("validation failed for field '%s'", fieldErr.Namespace()),
		).WithFields(map[string]interface{}{
			"field": fieldErr.Namespace(),
			"tag":   fieldErr.Tag(),
			"value": fieldErr.Value(),
		})
	}

	return errors.New(errors.ErrValidationFailed, "validation failed")
}
