package propagation

import "context"

// Composite runs a sequence of TextMapPropagators in order: Inject calls
// each in turn (later propagators may overwrite earlier ones' headers if
// they share field names); Extract threads ctx through each in turn, so a
// later propagator's Extract sees the context produced by an earlier one.
// Selected at startup from OTEL_PROPAGATORS or explicit config.
type Composite struct {
	propagators []TextMapPropagator
}

// NewComposite builds a Composite running ps in order.
func NewComposite(ps ...TextMapPropagator) Composite {
	return Composite{propagators: ps}
}

// Inject implements TextMapPropagator.
func (c Composite) Inject(ctx context.Context, carrier TextMapCarrier) {
	for _, p := range c.propagators {
		p.Inject(ctx, carrier)
	}
}

// Extract implements TextMapPropagator.
func (c Composite) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	for _, p := range c.propagators {
		ctx = p.Extract(ctx, carrier)
	}
	return ctx
}

// Fields implements TextMapPropagator, returning the union of every member
// propagator's fields (duplicates removed, order preserved by first
// occurrence).
func (c Composite) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.propagators {
		for _, f := range p.Fields() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// ByName resolves a propagator from its OTEL_PROPAGATORS wire name
// ("tracecontext", "baggage", "b3", "b3multi", "jaeger", "xray"). Unknown
// names resolve to (nil, false); the caller should log and skip them rather
// than fail startup.
func ByName(name string) (TextMapPropagator, bool) {
	switch name {
	case "tracecontext":
		return TraceContext{}, true
	case "baggage":
		return Baggage{}, true
	case "b3":
		return B3{Encoding: B3SingleHeader}, true
	case "b3multi":
		return B3{Encoding: B3MultiHeader}, true
	case "jaeger":
		return Jaeger{}, true
	case "xray":
		return XRay{}, true
	default:
		return nil, false
	}
}
