package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	defer func(old Logger) { UseLogger(old) }(logger)
	tp := &RecordLogger{}
	UseLogger(tp)

	t.Run("Warn", func(t *testing.T) {
		tp.Reset()
		Warn("message %d", 1)
		assert.Equal(t, msg("WARN", "message 1"), tp.Logs()[0])
	})

	t.Run("Debug", func(t *testing.T) {
		t.Run("on", func(t *testing.T) {
			tp.Reset()
			defer func(old Level) { levelThreshold = old }(levelThreshold)
			SetLevel(LevelDebug)
			assert.True(t, DebugEnabled())

			Debug("message %d", 3)
			assert.Equal(t, msg("DEBUG", "message 3"), tp.Logs()[0])
		})

		t.Run("off", func(t *testing.T) {
			tp.Reset()
			SetLevel(LevelWarn)
			assert.False(t, DebugEnabled())
			Debug("message %d", 2)
			assert.Len(t, tp.Logs(), 0)
		})
	})

	t.Run("Error", func(t *testing.T) {
		t.Run("flush", func(t *testing.T) {
			defer func(old time.Duration) { errrate = old }(errrate)
			errrate = 10 * time.Hour

			tp.Reset()
			Error("a message %d", 1)
			Error("a message %d", 2)

			Flush()
			assert.True(t, hasMsg("ERROR", "a message 1, 1 additional messages skipped", tp.Logs()))
		})

		t.Run("instant", func(t *testing.T) {
			tp.Reset()
			defer func(old time.Duration) { errrate = old }(errrate)
			errrate = 0

			Error("fourth message %d", 4)
			assert.True(t, hasMsg("ERROR", "fourth message 4", tp.Logs()))
			assert.Len(t, tp.Logs(), 1)
		})
	})
}

func TestRecordLoggerIgnore(t *testing.T) {
	tp := new(RecordLogger)
	tp.Ignore("appsec")
	tp.Log("this is an appsec log")
	tp.Log("this is a tracer log")
	assert.Len(t, tp.Logs(), 1)
	assert.NotContains(t, tp.Logs()[0], "appsec")
	tp.Reset()
	tp.Log("this is an appsec log")
	assert.Len(t, tp.Logs(), 1)
	assert.Contains(t, tp.Logs()[0], "appsec")
}

func TestSetLoggingRate(t *testing.T) {
	testCases := []struct {
		input  string
		result time.Duration
	}{
		{input: "", result: time.Minute},
		{input: "0", result: 0 * time.Second},
		{input: "10", result: 10 * time.Second},
		{input: "-1", result: time.Minute},
		{input: "this is not a number", result: time.Minute},
	}
	for _, tC := range testCases {
		tC := tC
		errrate = time.Minute
		t.Run(tC.input, func(t *testing.T) {
			setLoggingRate(tC.input)
			assert.Equal(t, tC.result, errrate)
		})
	}
}

func hasMsg(lvl, m string, lines []string) bool {
	for _, line := range lines {
		if line == msg(lvl, m) {
			return true
		}
	}
	return false
}

func msg(lvl, m string) string {
	return prefixMsg + " " + lvl + ": " + m
}
