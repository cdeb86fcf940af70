package telemetrystats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testClient struct {
	mu         sync.Mutex
	incrCalls  []string
	countCalls map[string]int64
}

func (c *testClient) Incr(name string, _ []string, _ float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incrCalls = append(c.incrCalls, name)
	return nil
}

func (c *testClient) Count(name string, value int64, _ []string, _ float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.countCalls == nil {
		c.countCalls = map[string]int64{}
	}
	c.countCalls[name] += value
	return nil
}

func (c *testClient) Gauge(string, float64, []string, float64) error           { return nil }
func (c *testClient) Timing(string, time.Duration, []string, float64) error    { return nil }
func (c *testClient) Flush() error                                             { return nil }
func (c *testClient) Close() error                                             { return nil }

func TestIncrAndCount(t *testing.T) {
	defer UseClient(nil)
	tc := &testClient{}
	UseClient(tc)

	Incr(MetricSpanAttributesDropped)
	Count(MetricBatchQueueDropped, 3)

	tc.mu.Lock()
	defer tc.mu.Unlock()
	assert.Contains(t, tc.incrCalls, MetricSpanAttributesDropped)
	assert.Equal(t, int64(3), tc.countCalls[MetricBatchQueueDropped])
}

func TestUseClientNilRestoresNoop(t *testing.T) {
	UseClient(nil)
	assert.NotPanics(t, func() { Incr(MetricExportFailure) })
}
