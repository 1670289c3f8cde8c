package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldPlatform is the vendor platform identifier (roamler, wiser, pinion).
	FieldPlatform = "platform"

	// FieldJobID is the vendor job identifier.
	FieldJobID = "job_id"

	// FieldMarket is the canonical market code.
	FieldMarket = "market"

	// FieldCategory is the canonical category code.
	FieldCategory = "category"

	// FieldComponent is the component/module name.
	FieldComponent = "component"
)

// Standard metric fields used for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field.
	FieldCount = "count"

	// FieldStatus is the operation status.
	FieldStatus = "status"
)
