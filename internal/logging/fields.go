package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the standardized structured logging key for resolution stages.
	FieldStage = "stage"
	// FieldPlayer is the standardized structured logging key for the input name being resolved.
	FieldPlayer = "player"
	// FieldRunID is the standardized structured logging key for one CLI invocation.
	FieldRunID = "run_id"
	// FieldEventType is the standardized key for machine-readable event names.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized key for the suggested next step after a failure.
	FieldErrorHint = "error_hint"
	// FieldDecisionType is the standardized key for decision log lines.
	FieldDecisionType = "decision_type"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
