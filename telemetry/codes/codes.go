// Package codes defines the span status code enum shared by the API and SDK
// layers, kept separate from the telemetry package so exporters can depend on
// it without pulling in the rest of the API surface.
package codes

// Code is the status of a completed span, independent of any transport-level
// error representation. It is a StatusCode in the wire formats, not a user
// string.
type Code int32

const (
	// Unset is the default status of a newly created span.
	Unset Code = iota
	// Error marks a span as having failed. Once set it cannot be downgraded
	// back to Unset; a later SetStatus(Ok, ...) call may still replace it.
	Error
	// Ok marks a span as successful. Ok is sticky: once set, a later
	// SetStatus(Error, ...) call must not downgrade it back.
	Ok
)

// String renders the code's wire name.
func (c Code) String() string {
	switch c {
	case Error:
		return "Error"
	case Ok:
		return "Ok"
	default:
		return "Unset"
	}
}
