package metric

import (
	"regexp"

	"golang.org/x/xerrors"
)

// InstrumentKind fixes an instrument's shape: synchronous or observable, and
// the aggregator its measurements feed.
type InstrumentKind int

const (
	KindCounter InstrumentKind = iota
	KindUpDownCounter
	KindHistogram
	KindGauge
	KindObservableCounter
	KindObservableUpDownCounter
	KindObservableGauge
)

func (k InstrumentKind) String() string {
	switch k {
	case KindCounter:
		return "Counter"
	case KindUpDownCounter:
		return "UpDownCounter"
	case KindHistogram:
		return "Histogram"
	case KindGauge:
		return "Gauge"
	case KindObservableCounter:
		return "ObservableCounter"
	case KindObservableUpDownCounter:
		return "ObservableUpDownCounter"
	case KindObservableGauge:
		return "ObservableGauge"
	default:
		return "Unknown"
	}
}

func (k InstrumentKind) synchronous() bool {
	switch k {
	case KindCounter, KindUpDownCounter, KindHistogram, KindGauge:
		return true
	default:
		return false
	}
}

// monotonic reports whether the instrument kind only ever accumulates
// (Counter, ObservableCounter): its Sum aggregation always sets IsMonotonic.
func (k InstrumentKind) monotonic() bool {
	return k == KindCounter || k == KindObservableCounter
}

// instrumentNamePattern matches the OpenTelemetry instrument naming rule:
// starts with a letter, continues with letters, digits, '_', '.', '/', '-'.
var instrumentNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_./-]*$`)

const maxInstrumentNameLength = 63
const maxUnitLength = 63

// ValidateInstrumentName reports a descriptive error if name violates the
// naming rule, rather than panicking; callers treat it as a configuration
// error reported through the global error handler.
func ValidateInstrumentName(name string) error {
	if name == "" {
		return xerrors.New("metric: instrument name must not be empty")
	}
	if len(name) > maxInstrumentNameLength {
		return xerrors.Errorf("metric: instrument name %q exceeds %d characters", name, maxInstrumentNameLength)
	}
	if !instrumentNamePattern.MatchString(name) {
		return xerrors.Errorf("metric: instrument name %q does not match %s", name, instrumentNamePattern.String())
	}
	return nil
}

// ValidateUnit reports a descriptive error if unit is non-ASCII or too long.
func ValidateUnit(unit string) error {
	if len(unit) > maxUnitLength {
		return xerrors.Errorf("metric: instrument unit %q exceeds %d characters", unit, maxUnitLength)
	}
	for i := 0; i < len(unit); i++ {
		if unit[i] > 0x7F {
			return xerrors.Errorf("metric: instrument unit %q must be ASCII", unit)
		}
	}
	return nil
}

// instrumentID is an instrument's identity: two instruments with the same
// kind, name, description, and unit refer to the same timeseries family and
// share a single series map. The name is compared exactly as given;
// normalizedName (the case-folded name) only serves to log a warning about
// conflicting registrations, so names that differ only in case get separate
// series maps.
type instrumentID struct {
	kind           InstrumentKind
	name           string
	normalizedName string
	description    string
	unit           string
}

func newInstrumentID(kind InstrumentKind, name, description, unit string) instrumentID {
	return instrumentID{
		kind:           kind,
		name:           name,
		normalizedName: foldName(name),
		description:    description,
		unit:           unit,
	}
}

func foldName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// InstrumentOption configures the optional parts of an instrument's
// identity at creation time.
type InstrumentOption func(*instrumentConfig)

type instrumentConfig struct {
	description string
	unit        string
}

func newInstrumentConfig(opts []InstrumentOption) instrumentConfig {
	var c instrumentConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDescription sets an instrument's human-readable description.
func WithDescription(description string) InstrumentOption {
	return func(c *instrumentConfig) { c.description = description }
}

// WithUnit sets an instrument's unit string (e.g. "ms", "By", "{request}").
func WithUnit(unit string) InstrumentOption {
	return func(c *instrumentConfig) { c.unit = unit }
}
