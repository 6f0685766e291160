package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMinorUnits(t *testing.T) {
	m := FromMinorUnits(2500)
	assert.Equal(t, "25.00", m.String())
	assert.Equal(t, int64(2500), m.MinorUnits())
}

func TestFromString(t *testing.T) {
	m, err := FromString("10.00")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), m.MinorUnits())

	_, err = FromString("not-a-number")
	assert.Error(t, err)
}

func TestSubtotalNoDrift(t *testing.T) {
	// 0.10 added a thousand times must be exactly 100.00, the case
	// float64 accumulation gets wrong.
	dime := MustFromString("0.10")
	total := Zero()
	for i := 0; i < 1000; i++ {
		total = total.Add(dime)
	}
	assert.Equal(t, int64(10000), total.MinorUnits())
	assert.Equal(t, "100.00", total.String())
}

func TestMulInt(t *testing.T) {
	m := MustFromString("10.00").MulInt(2).Add(MustFromString("5.00"))
	assert.Equal(t, "25.00", m.String())
}

func TestWithinOneMinorUnit(t *testing.T) {
	a := FromMinorUnits(2500)
	assert.True(t, a.WithinOneMinorUnit(FromMinorUnits(2500)))
	assert.True(t, a.WithinOneMinorUnit(FromMinorUnits(2501)))
	assert.True(t, a.WithinOneMinorUnit(FromMinorUnits(2499)))
	assert.False(t, a.WithinOneMinorUnit(FromMinorUnits(2502)))
}

func TestUnmarshalRoundsLikeFromString(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"25.005"`), &m))
	assert.Equal(t, MustFromString("25.005").MinorUnits(), m.MinorUnits())
	assert.Equal(t, "25.01", m.String())
}

func TestScanValue(t *testing.T) {
	m := MustFromString("19.99")
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1999), v)

	var scanned Money
	require.NoError(t, scanned.Scan(int64(1999)))
	assert.True(t, scanned.Equal(m))
}
