package trace

// SpanLimits bounds the per-span attribute/event/link storage. Exceeding a
// limit does not error; the new entry that would exceed it is simply refused
// and the corresponding dropped-count is incremented.
type SpanLimits struct {
	AttributeCountLimit         int
	EventCountLimit             int
	LinkCountLimit              int
	AttributePerEventCountLimit int
	AttributePerLinkCountLimit  int
}

// defaultSpanLimits mirrors the 128-entry defaults used throughout the
// OpenTelemetry SDK family.
func defaultSpanLimits() SpanLimits {
	return SpanLimits{
		AttributeCountLimit:         128,
		EventCountLimit:             128,
		LinkCountLimit:              128,
		AttributePerEventCountLimit: 128,
		AttributePerLinkCountLimit:  128,
	}
}
