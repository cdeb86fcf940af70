package trace

import (
	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// boundedAttrs holds a span's attribute set: last-write-wins by key, capped
// at limit entries. Exceeding the cap on a *new* key drops that key (an
// update to an already-present key never counts against the cap).
type boundedAttrs struct {
	limit   int
	index   map[attribute.Key]int
	kvs     []attribute.KeyValue
	dropped int
}

func newBoundedAttrs(limit int) boundedAttrs {
	return boundedAttrs{limit: limit, index: make(map[attribute.Key]int)}
}

// add merges kvs into the set and returns how many were dropped for
// exceeding the cap.
func (b *boundedAttrs) add(kvs ...attribute.KeyValue) int {
	dropped := 0
	for _, kv := range kvs {
		if i, ok := b.index[kv.Key]; ok {
			b.kvs[i] = kv
			continue
		}
		if b.limit > 0 && len(b.kvs) >= b.limit {
			dropped++
			continue
		}
		b.index[kv.Key] = len(b.kvs)
		b.kvs = append(b.kvs, kv)
	}
	b.dropped += dropped
	return dropped
}

func (b *boundedAttrs) toSlice() []attribute.KeyValue {
	out := make([]attribute.KeyValue, len(b.kvs))
	copy(out, b.kvs)
	return out
}

// boundedEvents is a FIFO queue of events capped at limit; each event's own
// attribute list is separately capped at perEventLimit.
type boundedEvents struct {
	limit         int
	perEventLimit int
	items         []telemetry.Event
	dropped       int
}

func newBoundedEvents(limit, perEventLimit int) boundedEvents {
	return boundedEvents{limit: limit, perEventLimit: perEventLimit}
}

// add appends ev, truncating its attributes to perEventLimit. It reports
// whether the event itself was dropped for exceeding the queue cap.
func (b *boundedEvents) add(ev telemetry.Event) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return true
	}
	if b.perEventLimit > 0 && len(ev.Attributes) > b.perEventLimit {
		ev.Attributes = ev.Attributes[:b.perEventLimit]
	}
	b.items = append(b.items, ev)
	return false
}

func (b *boundedEvents) toSlice() []telemetry.Event {
	out := make([]telemetry.Event, len(b.items))
	copy(out, b.items)
	return out
}

// boundedLinks mirrors boundedEvents for a span's links.
type boundedLinks struct {
	limit        int
	perLinkLimit int
	items        []telemetry.Link
	dropped      int
}

func newBoundedLinks(limit, perLinkLimit int) boundedLinks {
	return boundedLinks{limit: limit, perLinkLimit: perLinkLimit}
}

func (b *boundedLinks) add(l telemetry.Link) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return true
	}
	if b.perLinkLimit > 0 && len(l.Attributes) > b.perLinkLimit {
		l.Attributes = l.Attributes[:b.perLinkLimit]
	}
	b.items = append(b.items, l)
	return false
}

func (b *boundedLinks) toSlice() []telemetry.Link {
	out := make([]telemetry.Link, len(b.items))
	copy(out, b.items)
	return out
}
