package calc

import "math"

// DC004Input is the seat thickness sheet input set. PTMPa defaults to
// 1.1*P when zero; RealTMM defaults to the 6.90 mm sheet value.
type DC004Input struct {
	SmF316MPa float64 `json:"SmF316_MPa"`
	SaF316MPa float64 `json:"SaF316_MPa"`
	DiMM      float64 `json:"Di_mm"`
	PMPa      float64 `json:"P_MPa"`
	PTMPa     float64 `json:"PT_MPa"`
	RealTMM   float64 `json:"real_t_mm"`
}

// DC004Result mirrors the sheet's computed section.
type DC004Result struct {
	TDesignMM   float64 `json:"t_design_mm"`
	TTestMM     float64 `json:"t_test_mm"`
	RequiredTMM float64 `json:"required_t_mm"`
	Verdict     string  `json:"verdict"`
}

// ComputeDC004 evaluates the minimum seat thickness per ASME VIII
// Div.1 (design) and Div.2 (seat test): t = p*Di / (2*(S − 0.6p)).
func ComputeDC004(in DC004Input) DC004Result {
	pt := in.PTMPa
	if pt == 0 {
		pt = math.Round(1.1*in.PMPa*100) / 100
	}
	realT := in.RealTMM
	if realT == 0 {
		realT = 6.90
	}

	tDesign, okDesign := 0.0, false
	if d := 2 * (in.SaF316MPa - 0.6*in.PMPa); d > 0 {
		tDesign, okDesign = in.PMPa*in.DiMM/d, true
	}
	tTest, okTest := 0.0, false
	if d := 2 * (in.SmF316MPa - 0.6*pt); d > 0 {
		tTest, okTest = pt*in.DiMM/d, true
	}

	req := math.Max(tDesign, tTest)
	verdict := "NOT VERIFIED"
	if okDesign && okTest && realT >= req {
		verdict = "VERIFIED"
	}
	return DC004Result{TDesignMM: tDesign, TTestMM: tTest, RequiredTMM: req, Verdict: verdict}
}
