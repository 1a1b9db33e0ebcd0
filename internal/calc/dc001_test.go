package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDC001(t *testing.T) {
	res := ComputeDC001(DC001Input{
		DmMM: 62.3, C1NPerMM: 2.5, Z: 1,
		PN: 1020, FMM: 2.19,
		Material: "PTFE",
		DeMM:     66.74, DiMM: 57.86, DcMM: 62.3,
		PaMPa: 10.21,
	})

	assert.InDelta(t, 489.30, res.FmtN, 0.01)
	assert.InDelta(t, 0.4797, res.Nm, 0.0005)
	assert.InDelta(t, 787.12, res.PrN, 0.01)
	assert.InDelta(t, 0.6216, res.Nmr, 0.0005)
	// Nma defaults to ceil(Nmr) = 1
	assert.InDelta(t, 787.12, res.FmrN, 0.01)
	assert.InDelta(t, 4.022, res.C1Effective, 0.001)
	assert.Equal(t, "VERIFIED", res.SpringCheck)

	assert.InDelta(t, 60.82, res.DcsMM, 0.01)
	// Dc equals the De/Di mean here, so F reduces to Fmr
	assert.InDelta(t, 787.12, res.FN, 0.01)
	assert.InDelta(t, 0.9058, res.QMPa, 0.001)
	assert.Equal(t, "OK (Q < Y max)", res.Result)
}

func TestComputeDC001ExplicitSpringCount(t *testing.T) {
	res := ComputeDC001(DC001Input{
		DmMM: 62.3, C1NPerMM: 2.5, Z: 1,
		PN: 1020, FMM: 2.19, Nma: 4,
		DeMM: 66.74, DiMM: 57.86, DcMM: 62.3,
		PaMPa: 10.21, YMaxMPa: 9,
	})
	assert.InDelta(t, 4*787.12, res.FmrN, 0.05)
	assert.Equal(t, "VERIFIED", res.SpringCheck)
}

func TestComputeDC001YMaxFromMaterial(t *testing.T) {
	require.Equal(t, 9.0, SeatInsertYMaxMPa["PTFE"])
	require.Equal(t, 90.0, SeatInsertYMaxMPa["PEEK"])
}

func TestComputeDC001A(t *testing.T) {
	res := ComputeDC001A(DC001AInput{SRN: 500, FmolleN: 400})
	assert.Equal(t, "VERIFICATO", res.Verdict)

	res = ComputeDC001A(DC001AInput{SRN: 300, FmolleN: 400})
	assert.Equal(t, "NON VERIFICATO", res.Verdict)
}

func TestDefaultDC001Input(t *testing.T) {
	in := DefaultDC001Input(62.3, 10.21)
	assert.Equal(t, 62.3, in.DmMM)
	assert.Equal(t, 10.21, in.PaMPa)
	assert.Equal(t, "PTFE", in.Material)
	assert.Equal(t, 9.0, in.YMaxMPa)
}
