package health

import (
	"context"
	"fmt"
)

// AlwaysHealthy is a check that always returns healthy
func AlwaysHealthy() Check {
	return func(ctx context.Context) error {
		return nil
	}
}

// AlwaysUnhealthy is a check that always returns unhealthy
func AlwaysUnhealthy(reason string) Check {
	return func(ctx context.Context) error {
		return fmt.Errorf("%s", reason)
	}
}

// CombinedCheck combines multiple checks with AND logic.
// The first failure is returned unwrapped so its error code survives.
func CombinedCheck(checks ...Check) Check {
	return func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
