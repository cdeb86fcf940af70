package telemetry

import (
	"errors"
	"strings"
)

// maxTraceStateEntries is the W3C-mandated cap on the number of list members
// in a tracestate header.
const maxTraceStateEntries = 32

// TraceStateErrorKind classifies why a TraceState mutation was rejected.
type TraceStateErrorKind int

const (
	// ErrInvalidKey means the key failed the W3C tracestate key grammar.
	ErrInvalidKey TraceStateErrorKind = iota
	// ErrInvalidValue means the value failed the W3C tracestate value grammar.
	ErrInvalidValue
	// ErrCapacityExceeded means the insert would grow the list past 32 entries.
	ErrCapacityExceeded
)

// TraceStateError reports why TraceState.Insert failed.
type TraceStateError struct{ Kind TraceStateErrorKind }

func (e *TraceStateError) Error() string {
	switch e.Kind {
	case ErrInvalidKey:
		return "telemetry: invalid tracestate key"
	case ErrInvalidValue:
		return "telemetry: invalid tracestate value"
	case ErrCapacityExceeded:
		return "telemetry: tracestate capacity exceeded"
	default:
		return "telemetry: invalid tracestate"
	}
}

type traceStateMember struct {
	key, value string
}

// TraceState is an ordered list of vendor key/value pairs carried alongside a
// trace id, independent of the trace id's own validity. The zero value is an
// empty TraceState. TraceState is immutable: every mutator returns a new
// value backed by its own copy of the list.
type TraceState struct {
	members []traceStateMember
}

// IsEmpty reports whether the TraceState carries no entries.
func (ts TraceState) IsEmpty() bool { return len(ts.members) == 0 }

// Len returns the number of entries.
func (ts TraceState) Len() int { return len(ts.members) }

// Get returns the value associated with key and whether it was present.
func (ts TraceState) Get(key string) (string, bool) {
	for _, m := range ts.members {
		if m.key == key {
			return m.value, true
		}
	}
	return "", false
}

// TraceStateEntry is one exported (key, value) pair, used by propagators
// outside this package (e.g. AWS X-Ray's extra-fields round trip) that need
// to walk the full list rather than look up a single key.
type TraceStateEntry struct {
	Key, Value string
}

// Entries returns the ordered list of (key, value) pairs.
func (ts TraceState) Entries() []TraceStateEntry {
	out := make([]TraceStateEntry, len(ts.members))
	for i, m := range ts.members {
		out[i] = TraceStateEntry{Key: m.key, Value: m.value}
	}
	return out
}

// Insert validates (key, value) against the W3C grammar, removes any existing
// entry for key, and prepends the new pair to the front of the list (the
// most-recently-inserted entry sorts first). It fails if the grammar is
// violated or the resulting list would exceed 32 entries.
func (ts TraceState) Insert(key, value string) (TraceState, error) {
	if !validTraceStateKey(key) {
		return ts, &TraceStateError{Kind: ErrInvalidKey}
	}
	if !validTraceStateValue(value) {
		return ts, &TraceStateError{Kind: ErrInvalidValue}
	}
	next := make([]traceStateMember, 0, len(ts.members)+1)
	next = append(next, traceStateMember{key: key, value: value})
	for _, m := range ts.members {
		if m.key == key {
			continue
		}
		next = append(next, m)
	}
	if len(next) > maxTraceStateEntries {
		return ts, &TraceStateError{Kind: ErrCapacityExceeded}
	}
	return TraceState{members: next}, nil
}

// Delete returns a TraceState with key removed, or ts unchanged if key was
// absent.
func (ts TraceState) Delete(key string) TraceState {
	if _, ok := ts.Get(key); !ok {
		return ts
	}
	next := make([]traceStateMember, 0, len(ts.members))
	for _, m := range ts.members {
		if m.key != key {
			next = append(next, m)
		}
	}
	return TraceState{members: next}
}

// Header serializes the TraceState as a comma-separated "k=v" list in its
// current order, suitable for the W3C tracestate header.
func (ts TraceState) Header() string {
	if ts.IsEmpty() {
		return ""
	}
	parts := make([]string, len(ts.members))
	for i, m := range ts.members {
		parts[i] = m.key + "=" + m.value
	}
	return strings.Join(parts, ",")
}

// ErrTraceStateTooLong names a single tracestate entry exceeding the 256
// character limit. ParseTraceState skips such entries silently and does not
// return this error.
var ErrTraceStateTooLong = errors.New("telemetry: tracestate entry too long")

// ParseTraceState parses a W3C tracestate header value. Malformed entries are
// skipped silently; entries beyond the 32-entry cap are dropped. Order of
// surviving entries is preserved.
func ParseTraceState(header string) TraceState {
	var ts TraceState
	for _, raw := range strings.Split(header, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if len(raw) > 256 {
			continue
		}
		idx := strings.IndexByte(raw, '=')
		if idx < 0 {
			continue
		}
		k := strings.TrimSpace(raw[:idx])
		v := strings.TrimSpace(raw[idx+1:])
		if !validTraceStateKey(k) || !validTraceStateValue(v) {
			continue
		}
		if ts.hasKey(k) {
			continue // duplicate keys collapse to the first (left-most, most recent) occurrence
		}
		ts.members = append(ts.members, traceStateMember{key: k, value: v})
		if len(ts.members) == maxTraceStateEntries {
			break
		}
	}
	return ts
}

func (ts TraceState) hasKey(key string) bool {
	_, ok := ts.Get(key)
	return ok
}

// validTraceStateKey implements the W3C tracestate key grammar: a simple key
// is lcalpha (lcalpha / DIGIT / "_" / "-"/ "*" / "/")*, up to 256 chars; a
// tenant-scoped key additionally allows one "@" separating a 1-241 char
// tenant id from a 1-14 char vendor id, each starting with lcalpha.
func validTraceStateKey(key string) bool {
	if key == "" || len(key) > 256 {
		return false
	}
	if at := strings.IndexByte(key, '@'); at >= 0 {
		tenant, vendor := key[:at], key[at+1:]
		return len(tenant) >= 1 && len(tenant) <= 241 && len(vendor) >= 1 && len(vendor) <= 14 &&
			isLCAlphaStart(tenant) && allKeyChars(tenant) && isLCAlphaStart(vendor) && allKeyChars(vendor)
	}
	return isLCAlphaStart(key) && allKeyChars(key)
}

func isLCAlphaStart(s string) bool {
	c := s[0]
	return c >= 'a' && c <= 'z'
}

func allKeyChars(s string) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-', c == '*', c == '/':
		default:
			return false
		}
	}
	return true
}

// validTraceStateValue implements the W3C tracestate value grammar: up to 256
// printable ASCII characters excluding ',' and '=', not ending in a space.
func validTraceStateValue(v string) bool {
	if v == "" || len(v) > 256 {
		return false
	}
	if v[len(v)-1] == ' ' {
		return false
	}
	for _, c := range v {
		if c < 0x20 || c > 0x7e || c == ',' || c == '=' {
			return false
		}
	}
	return true
}
