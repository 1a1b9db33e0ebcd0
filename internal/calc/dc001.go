package calc

import "math"

// DC001Input is the seat insert & spring sheet input set. Dm defaults
// to the base bore and Pa to the base rating pressure when zero.
type DC001Input struct {
	DmMM     float64 `json:"Dm_mm"`
	C1NPerMM float64 `json:"c1_N_per_mm"`
	Z        float64 `json:"z"`
	PN       float64 `json:"P_N"`
	FMM      float64 `json:"f_mm"`
	Nma      int     `json:"Nma"`
	Material string  `json:"material"`
	YMaxMPa  float64 `json:"Y_max_MPa"`
	DeMM     float64 `json:"De_mm"`
	DiMM     float64 `json:"Di_mm"`
	DcMM     float64 `json:"Dc_mm"`
	PaMPa    float64 `json:"Pa_MPa"`
}

// DC001Result mirrors the sheet's computed section.
type DC001Result struct {
	FmtN        float64 `json:"Fmt_N"`
	Nm          float64 `json:"Nm"`
	PrN         float64 `json:"Pr_N"`
	Nmr         float64 `json:"Nmr"`
	FmrN        float64 `json:"Fmr_N"`
	C1Effective float64 `json:"C1_effective_N_per_mm"`
	SpringCheck string  `json:"spring_check"`
	DcsMM       float64 `json:"Dcs_mm"`
	FN          float64 `json:"F_N"`
	QMPa        float64 `json:"Q_MPa"`
	Result      string  `json:"result"`
}

// DefaultDC001Input returns the sheet defaults seeded from the base
// bore and rating pressure.
func DefaultDC001Input(boreMM, pressureMPa float64) DC001Input {
	return DC001Input{
		DmMM:     math.Round(boreMM*100) / 100,
		C1NPerMM: 2.50,
		Z:        1.00,
		PN:       1020.0,
		FMM:      2.19,
		Material: "PTFE",
		YMaxMPa:  SeatInsertYMaxMPa["PTFE"],
		DeMM:     66.74,
		DiMM:     57.86,
		DcMM:     math.Round(boreMM*100) / 100,
		PaMPa:    pressureMPa,
	}
}

// ComputeDC001 evaluates the seat insert & spring sheet. When Nma is
// zero the project spring count defaults to ceil(Nmr) (at least one).
// YMaxMPa is taken from the material table when unset.
func ComputeDC001(in DC001Input) DC001Result {
	fmt := math.Pi * math.Max(in.DmMM, 0) * math.Max(in.C1NPerMM, 0) * math.Max(in.Z, 0)

	nm := fmt / nonZero(in.PN)
	pr := in.PN * (in.FMM - 0.5) / nonZero(in.FMM)
	nmr := fmt / nonZero(pr)

	nma := in.Nma
	if nma < 1 {
		nma = int(math.Ceil(math.Max(nmr, 0)))
		if nma < 1 {
			nma = 1
		}
	}

	fmr := float64(nma) * pr
	c1eff := fmr / (math.Pi * nonZero(in.DmMM))

	springCheck := "NOT VERIFIED"
	if fmr >= fmt {
		springCheck = "VERIFIED"
	}

	yMax := in.YMaxMPa
	if yMax == 0 {
		yMax = SeatInsertYMaxMPa[in.Material]
	}

	dcs := (in.DeMM + 2*in.DiMM) / 3
	deDiMean := (in.DeMM + in.DiMM) / 2
	f := (in.DcMM*in.DcMM-deDiMean*deDiMean)*1.1*in.PaMPa*(math.Pi/4) + fmr
	q := f * 4 / nonZero((in.DeMM*in.DeMM-in.DiMM*in.DiMM)*math.Pi)

	result := "NOT OK (Q ≥ Y max)"
	if q < yMax {
		result = "OK (Q < Y max)"
	}

	return DC001Result{
		FmtN:        fmt,
		Nm:          nm,
		PrN:         pr,
		Nmr:         nmr,
		FmrN:        fmr,
		C1Effective: c1eff,
		SpringCheck: springCheck,
		DcsMM:       dcs,
		FN:          f,
		QMPa:        q,
		Result:      result,
	}
}

// DC001AInput is the self-relieving seat check. The values map straight
// from a DC001 save: Dc := DC001.Dm, Dts := DC001.Dc, SR := DC001.F,
// Fmolle := DC001.Pr.
type DC001AInput struct {
	DcMM    float64 `json:"Dc_mm_from_dc001_Dm"`
	DtsMM   float64 `json:"Dts_mm_from_dc001_Dc"`
	SRN     float64 `json:"SR_N"`
	FmolleN float64 `json:"F_molle_N"`
}

// DC001AResult carries the relieving check verdict.
type DC001AResult struct {
	SRN     float64 `json:"SR_N"`
	FmolleN float64 `json:"F_molle_N"`
	Verdict string  `json:"verdict"`
}

// ComputeDC001A checks SR ≥ Fmolle.
func ComputeDC001A(in DC001AInput) DC001AResult {
	verdict := "NON VERIFICATO"
	if in.SRN >= in.FmolleN {
		verdict = "VERIFICATO"
	}
	return DC001AResult{SRN: in.SRN, FmolleN: in.FmolleN, Verdict: verdict}
}

// nonZero guards divisions the way the sheets do.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1e-9
	}
	return v
}
