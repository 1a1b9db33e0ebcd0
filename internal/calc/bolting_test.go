package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestBolt(t *testing.T) {
	assert.Equal(t, "M14 x 2", ClosestBolt(100).Size)
	assert.Equal(t, "M5 x 0,5", ClosestBolt(0).Size)
	// nothing covers it: fall back to the largest size
	assert.Equal(t, `6" UN`, ClosestBolt(1e9).Size)
}

func TestBoltAreaBySize(t *testing.T) {
	a, ok := BoltAreaBySize("M16 x 2")
	require.True(t, ok)
	assert.Equal(t, 157.0, a)

	_, ok = BoltAreaBySize("M17 x 2")
	assert.False(t, ok)
}

func TestComputeDC002(t *testing.T) {
	res := ComputeDC002(DC002Input{
		GMM: 100, PaMPa: 10, BoltMaterial: "A193 B7", N: 8,
	})
	assert.Equal(t, 172.4, res.SMPa)
	assert.InDelta(t, 78500, res.HN, 0.1)
	assert.InDelta(t, 455.34, res.AmMM2, 0.01)
	assert.InDelta(t, 56.92, res.AReqMM2, 0.01)
	assert.Equal(t, "M10 x 1,5", res.BoltSize)
	assert.InDelta(t, 464, res.AbMM2, 0.01)
	assert.InDelta(t, 169.18, res.SaEffMPa, 0.01)
	assert.Equal(t, "VERIFIED", res.Verdict)
}

func TestComputeDC002ExplicitSize(t *testing.T) {
	res := ComputeDC002(DC002Input{
		GMM: 100, PaMPa: 10, BoltMaterial: "A193 B7", N: 8, BoltSize: "M8 x 1,25",
	})
	assert.Equal(t, "M8 x 1,25", res.BoltSize)
	assert.InDelta(t, 36.6*8, res.AbMM2, 0.01)
	assert.Equal(t, "NOT VERIFIED", res.Verdict)
}

func TestComputeDC002A(t *testing.T) {
	res := ComputeDC002A(DC002AInput{
		GMM: 100, PaTestMPa: 15, BoltMaterial: "A193 B7", N: 4,
	})
	assert.Equal(t, 860.0, res.SybMPa)
	assert.Equal(t, 713.8, res.SMPa)
	assert.InDelta(t, 117750, res.HN, 0.1)
	assert.Equal(t, "M10 x 1,5", res.BoltSize)
	assert.Equal(t, "VERIFIED", res.Verdict)
}

func TestComputeDC005(t *testing.T) {
	res := ComputeDC005(DC005Input{
		GMM: 80, GstemMM: 40, PaMPa: 10,
		SMPa: 137.9, N: 4, BoltSize: "M12 x 1,75",
	})
	assert.InDelta(t, 3769.91, res.RingAreaMM2, 0.01)
	assert.InDelta(t, 37699.1, res.HN, 0.1)
	assert.InDelta(t, 273.38, res.AmMM2, 0.01)
	assert.InDelta(t, 68.35, res.AReqMM2, 0.01)
	assert.InDelta(t, 337.2, res.AbMM2, 0.01)
	assert.InDelta(t, 111.80, res.SaEffMPa, 0.01)
	assert.Equal(t, "VERIFIED", res.Verdict)
}

func TestComputeDC005NegativeRingClamped(t *testing.T) {
	res := ComputeDC005(DC005Input{GMM: 40, GstemMM: 80, PaMPa: 10, SMPa: 137.9, N: 4})
	assert.Equal(t, 0.0, res.RingAreaMM2)
	assert.Equal(t, 0.0, res.HN)
}

func TestComputeDC005A(t *testing.T) {
	res := ComputeDC005A(DC005AInput{
		GMM: 80, GstemMM: 40, PaTestMPa: 15,
		Material: "A320 L7", N: 4, BoltSize: "M12 x 1,75",
	})
	assert.Equal(t, 620.0, res.SybMPa)
	assert.Equal(t, 514.6, res.SMPa)
	assert.Equal(t, "VERIFIED", res.Verdict)
}
