package propagation

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/baggage"
)

const baggageHeader = "baggage"

// Baggage implements the W3C baggage propagation format: comma-separated
// `key=value[;prop1[;prop2]]` entries, percent-encoded.
type Baggage struct{}

// Fields implements TextMapPropagator.
func (Baggage) Fields() []string { return []string{baggageHeader} }

// Inject writes the context's baggage as a W3C baggage header. A no-op when
// the context carries no baggage.
func (Baggage) Inject(ctx context.Context, carrier TextMapCarrier) {
	b := telemetry.BaggageFromContext(ctx)
	if b.Len() == 0 {
		return
	}
	members := b.Members()
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = encodeBaggageMember(m)
	}
	carrier.Set(baggageHeader, strings.Join(parts, ","))
}

// Extract parses a W3C baggage header from carrier. Malformed entries are
// skipped individually; a fully malformed header leaves ctx unchanged.
func (Baggage) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	raw := carrier.Get(baggageHeader)
	if raw == "" {
		return ctx
	}
	var members []baggage.Member
	for _, entry := range strings.Split(raw, ",") {
		m, ok := decodeBaggageMember(entry)
		if ok {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return ctx
	}
	return telemetry.ContextWithBaggage(ctx, baggage.New(members...))
}

func encodeBaggageMember(m baggage.Member) string {
	var b strings.Builder
	b.WriteString(percentEncodeBaggage(m.Key))
	b.WriteByte('=')
	b.WriteString(percentEncodeBaggage(m.Value))
	for _, p := range m.Properties {
		b.WriteByte(';')
		b.WriteString(p)
	}
	return b.String()
}

func decodeBaggageMember(entry string) (baggage.Member, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return baggage.Member{}, false
	}
	segments := strings.Split(entry, ";")
	kv := strings.SplitN(segments[0], "=", 2)
	if len(kv) != 2 {
		return baggage.Member{}, false
	}
	key, err := percentDecodeBaggage(strings.TrimSpace(kv[0]))
	if err != nil || key == "" {
		return baggage.Member{}, false
	}
	value, err := percentDecodeBaggage(strings.TrimSpace(kv[1]))
	if err != nil || value == "" {
		return baggage.Member{}, false
	}
	var props []string
	for _, p := range segments[1:] {
		p = strings.TrimSpace(p)
		if p != "" {
			props = append(props, p)
		}
	}
	m, err := baggage.NewMember(key, value, props...)
	return m, err == nil
}

// mustPercentEncode is the encode-set for W3C baggage: control characters,
// space, and `"`, `;`, `,`, `=`; '%' is also encoded so
// decoding is unambiguous.
func mustPercentEncode(c byte) bool {
	switch {
	case c < 0x20 || c == 0x7f:
		return true
	case c == ' ', c == '"', c == ';', c == ',', c == '=', c == '%':
		return true
	default:
		return false
	}
}

func percentEncodeBaggage(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if mustPercentEncode(c) {
			b.WriteByte('%')
			b.WriteString(strings.ToUpper(strconv.FormatUint(uint64(c), 16)))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func percentDecodeBaggage(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+3 > len(s) {
				return "", errBadPercentEncoding
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", errBadPercentEncoding
			}
			b.WriteByte(byte(v))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}

var errBadPercentEncoding = errors.New("propagation: invalid percent-encoding")
