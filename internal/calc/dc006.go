package calc

import "math"

// DC006Input is the flange stress sheet (operating condition). Gasket
// m and y default from the gasket table when zero.
type DC006Input struct {
	PaMPa    float64 `json:"Pa_MPa"`
	FTMM     float64 `json:"FT_mm"`
	ISGDMM   float64 `json:"ISGD_mm"`
	BcdMM    float64 `json:"Bcd_mm"`
	ESGDMM   float64 `json:"ESGD_mm"`
	Gasket   string  `json:"gasket"`
	M        float64 `json:"m"`
	YMPa     float64 `json:"y_MPa"`
	AllowMPa float64 `json:"allow_MPa"`
}

// DC006Result mirrors the sheet's computed section.
type DC006Result struct {
	NMM      float64 `json:"N_mm"`
	B0MM     float64 `json:"b0_mm"`
	BMM      float64 `json:"b_mm"`
	GMM      float64 `json:"G_mm"`
	HN       float64 `json:"H_N"`
	HpN      float64 `json:"Hp_N"`
	Wm1N     float64 `json:"Wm1_N"`
	Wm2N     float64 `json:"Wm2_N"`
	K        float64 `json:"K"`
	Sf1MPa   float64 `json:"Sf1_MPa"`
	Sf2MPa   float64 `json:"Sf2_MPa"`
	SfMPa    float64 `json:"Sf_MPa"`
	AllowMPa float64 `json:"allow_MPa"`
	Verdict  string  `json:"verdict"`
}

// computeFlangeStress is the shared DC006/DC006A chain per ASME VIII
// Div.1 App.2, with p being Pa (operating) or Pa_test (hydro).
func computeFlangeStress(in DC006Input, p float64) DC006Result {
	m, y := in.M, in.YMPa
	if g, ok := Gaskets[in.Gasket]; ok {
		if m == 0 {
			m = g.M
		}
		if y == 0 {
			y = g.Y
		}
	}
	allow := in.AllowMPa
	if allow == 0 {
		allow = 161.0
	}

	n := (in.ESGDMM - in.ISGDMM) / 2
	b0 := n / 2
	b := b0
	g := in.ESGDMM - 2*b

	h := (math.Pi / 4) * g * g * p
	hp := 2 * b * math.Pi * g * m * p
	wm1 := h + hp
	wm2 := math.Pi * b * g * y

	k := (2 / math.Pi) * (1 - 0.67*in.ESGDMM/math.Max(in.BcdMM, 1e-9))
	ft2 := math.Max(in.FTMM, 1e-9) * math.Max(in.FTMM, 1e-9)
	sf1 := k * wm1 / ft2
	sf2 := k * wm2 / ft2
	sf := math.Max(sf1, sf2)

	verdict := "NOT OK"
	if sf <= allow {
		verdict = "OK"
	}

	return DC006Result{
		NMM: n, B0MM: b0, BMM: b, GMM: g,
		HN: h, HpN: hp, Wm1N: wm1, Wm2N: wm2,
		K: k, Sf1MPa: sf1, Sf2MPa: sf2, SfMPa: sf,
		AllowMPa: allow, Verdict: verdict,
	}
}

// ComputeDC006 evaluates the closure flange stress at operating
// pressure.
func ComputeDC006(in DC006Input) DC006Result {
	return computeFlangeStress(in, in.PaMPa)
}

// DC006AInput is the hydro test variant of DC006.
type DC006AInput struct {
	PaTestMPa float64 `json:"Pa_test_MPa"`
	FTMM      float64 `json:"FT_mm"`
	ISGDMM    float64 `json:"ISGD_mm"`
	BcdMM     float64 `json:"Bcd_mm"`
	ESGDMM    float64 `json:"ESGD_mm"`
	Gasket    string  `json:"gasket"`
	M         float64 `json:"m"`
	YMPa      float64 `json:"y_MPa"`
	AllowMPa  float64 `json:"allow_MPa"`
}

// ComputeDC006A evaluates the closure flange stress at test pressure.
func ComputeDC006A(in DC006AInput) DC006Result {
	return computeFlangeStress(DC006Input{
		FTMM: in.FTMM, ISGDMM: in.ISGDMM, BcdMM: in.BcdMM, ESGDMM: in.ESGDMM,
		Gasket: in.Gasket, M: in.M, YMPa: in.YMPa, AllowMPa: in.AllowMPa,
	}, in.PaTestMPa)
}
