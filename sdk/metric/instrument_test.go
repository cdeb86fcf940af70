package metric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInstrumentNameAcceptsAllowedCharacters(t *testing.T) {
	assert.NoError(t, ValidateInstrumentName("http.server.request.duration"))
	assert.NoError(t, ValidateInstrumentName("queue_depth"))
	assert.NoError(t, ValidateInstrumentName("cache-hits/total"))
}

func TestValidateInstrumentNameRejectsBadStart(t *testing.T) {
	assert.Error(t, ValidateInstrumentName("1counter"))
	assert.Error(t, ValidateInstrumentName(".counter"))
	assert.Error(t, ValidateInstrumentName(""))
}

func TestValidateInstrumentNameRejectsTooLong(t *testing.T) {
	name := "a" + strings.Repeat("b", maxInstrumentNameLength)
	assert.Error(t, ValidateInstrumentName(name))
}

func TestValidateUnitRejectsNonASCII(t *testing.T) {
	assert.Error(t, ValidateUnit("µs"))
	assert.NoError(t, ValidateUnit("ms"))
}

func TestInstrumentIdentityFoldsNameCase(t *testing.T) {
	a := newInstrumentID(KindCounter, "Requests", "", "")
	b := newInstrumentID(KindCounter, "requests", "", "")
	assert.Equal(t, a.normalizedName, b.normalizedName)
}
