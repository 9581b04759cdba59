package signal

import "fmt"

// ValidationError rejects a request before any provider is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ComputationDefect reports an internal invariant violation. It indicates a
// bug in normalization or scoring, never bad provider data.
type ComputationDefect struct {
	Stage  string
	Detail string
}

func (e *ComputationDefect) Error() string {
	return fmt.Sprintf("computation defect in %s: %s", e.Stage, e.Detail)
}

func defect(stage, format string, args ...any) *ComputationDefect {
	return &ComputationDefect{Stage: stage, Detail: fmt.Sprintf(format, args...)}
}
