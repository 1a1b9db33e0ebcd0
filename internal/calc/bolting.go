package calc

import "math"

// boltChain is the shared bolting section shared by the DC002/DC005
// family: required area from load and allowable stress, per-bolt area,
// actual area from the selected size, effective stress and verdict.
type boltChain struct {
	AmMM2    float64
	AReqMM2  float64
	BoltSize string
	AMM2     float64
	AbMM2    float64
	SaEffMPa float64
	Verdict  string
}

// runBoltChain evaluates the chain. When boltSize is empty it picks the
// closest tabulated size covering the per-bolt requirement; an unknown
// size also falls back to the closest fit.
func runBoltChain(wm1, s float64, n int, boltSize string) boltChain {
	am := wm1 / math.Max(s, 1e-9)
	if n < 1 {
		n = 1
	}
	aReq := am / float64(n)

	a, ok := BoltAreaBySize(boltSize)
	if boltSize == "" || !ok {
		b := ClosestBolt(aReq)
		boltSize, a = b.Size, b.AreaMM2
	}

	ab := a * float64(n)
	saEff := wm1 / math.Max(ab, 1e-9)

	verdict := "NOT VERIFIED"
	if saEff <= s {
		verdict = "VERIFIED"
	}

	return boltChain{
		AmMM2:    am,
		AReqMM2:  aReq,
		BoltSize: boltSize,
		AMM2:     a,
		AbMM2:    ab,
		SaEffMPa: saEff,
		Verdict:  verdict,
	}
}

// DC002Input is the body-closure bolt sheet (operating condition).
// BoltSize left empty selects the closest tabulated size.
type DC002Input struct {
	GMM          float64 `json:"G_mm"`
	PaMPa        float64 `json:"Pa_MPa"`
	PeMPa        float64 `json:"Pe_MPa"`
	BoltMaterial string  `json:"bolt_material"`
	N            int     `json:"n"`
	BoltSize     string  `json:"bolt_size"`
}

// DC002Result mirrors the sheet's computed section.
type DC002Result struct {
	SMPa     float64 `json:"S_MPa"`
	HN       float64 `json:"H_N"`
	Wm1N     float64 `json:"Wm1_N"`
	AmMM2    float64 `json:"Am_mm2"`
	AReqMM2  float64 `json:"a_req_each_mm2"`
	AMM2     float64 `json:"a_mm2"`
	AbMM2    float64 `json:"Ab_mm2"`
	SaEffMPa float64 `json:"Sa_eff_MPa"`
	BoltSize string  `json:"bolt_size"`
	Verdict  string  `json:"verdict"`
}

// ComputeDC002 evaluates the operating-condition bolt check with
// H = 0.785*G²*Pa and Wm1 = H per ASME VIII Div.1.
func ComputeDC002(in DC002Input) DC002Result {
	s := AllowableSByMaterial[in.BoltMaterial]
	h := 0.785 * in.GMM * in.GMM * in.PaMPa
	wm1 := h
	c := runBoltChain(wm1, s, in.N, in.BoltSize)
	return DC002Result{
		SMPa: s, HN: h, Wm1N: wm1,
		AmMM2: c.AmMM2, AReqMM2: c.AReqMM2, AMM2: c.AMM2, AbMM2: c.AbMM2,
		SaEffMPa: c.SaEffMPa, BoltSize: c.BoltSize, Verdict: c.Verdict,
	}
}

// DC002AInput is the hydro test variant: PaTest defaults to 1.5 times
// the operating pressure on the sheet, Syb from the yield table when
// unset, and S = 0.83*Syb.
type DC002AInput struct {
	GMM          float64 `json:"G_mm"`
	PaTestMPa    float64 `json:"Pa_test_MPa"`
	PeMPa        float64 `json:"Pe_MPa"`
	BoltMaterial string  `json:"bolt_material"`
	SybMPa       float64 `json:"Syb_MPa"`
	N            int     `json:"n"`
	BoltSize     string  `json:"bolt_size"`
}

// DC002AResult mirrors the sheet's computed section.
type DC002AResult struct {
	SybMPa   float64 `json:"Syb_MPa"`
	SMPa     float64 `json:"S_MPa"`
	HN       float64 `json:"H_N"`
	Wm1N     float64 `json:"Wm1_N"`
	AmMM2    float64 `json:"Am_mm2"`
	AReqMM2  float64 `json:"a_req_each_mm2"`
	AMM2     float64 `json:"a_mm2"`
	AbMM2    float64 `json:"Ab_mm2"`
	SaEffMPa float64 `json:"Sa_eff_MPa"`
	BoltSize string  `json:"bolt_size"`
	Verdict  string  `json:"verdict"`
}

// ComputeDC002A evaluates the hydro-test bolt check (ASME VIII Div.2).
func ComputeDC002A(in DC002AInput) DC002AResult {
	syb := in.SybMPa
	if syb == 0 {
		syb = BoltYieldMPa[in.BoltMaterial]
	}
	s := math.Round(0.83*syb*10) / 10

	h := 0.785 * in.GMM * in.GMM * in.PaTestMPa
	wm1 := h
	c := runBoltChain(wm1, s, in.N, in.BoltSize)
	return DC002AResult{
		SybMPa: syb, SMPa: s, HN: h, Wm1N: wm1,
		AmMM2: c.AmMM2, AReqMM2: c.AReqMM2, AMM2: c.AMM2, AbMM2: c.AbMM2,
		SaEffMPa: c.SaEffMPa, BoltSize: c.BoltSize, Verdict: c.Verdict,
	}
}

// DC005Input is the body/gland plate flange bolt sheet (operating).
// SMPa overrides the material table Sa when set.
type DC005Input struct {
	GMM      float64 `json:"G_mm"`
	GstemMM  float64 `json:"Gstem_mm"`
	PaMPa    float64 `json:"Pa_MPa"`
	PeMPa    float64 `json:"Pe_MPa"`
	Material string  `json:"material"`
	SMPa     float64 `json:"S_MPa"`
	N        int     `json:"n"`
	BoltSize string  `json:"bolt_size"`
}

// DC005Result mirrors the sheet's computed section.
type DC005Result struct {
	RingAreaMM2 float64 `json:"ring_area_mm2"`
	HN          float64 `json:"H_N"`
	Wm1N        float64 `json:"Wm1_N"`
	AmMM2       float64 `json:"Am_mm2"`
	AReqMM2     float64 `json:"a_req_each_mm2"`
	AMM2        float64 `json:"a_mm2"`
	AbMM2       float64 `json:"Ab_mm2"`
	SaEffMPa    float64 `json:"Sa_eff_MPa"`
	BoltSize    string  `json:"bolt_size"`
	Verdict     string  `json:"verdict"`
}

// ComputeDC005 evaluates the gland bolt check with the annular load
// H = π/4*(G² − Gstem²)*Pa.
func ComputeDC005(in DC005Input) DC005Result {
	s := in.SMPa
	if s == 0 {
		s = BoltAllowables[in.Material].Sa
	}
	ring := (math.Pi / 4) * math.Max(in.GMM*in.GMM-in.GstemMM*in.GstemMM, 0)
	h := ring * in.PaMPa
	wm1 := h
	c := runBoltChain(wm1, s, in.N, in.BoltSize)
	return DC005Result{
		RingAreaMM2: ring, HN: h, Wm1N: wm1,
		AmMM2: c.AmMM2, AReqMM2: c.AReqMM2, AMM2: c.AMM2, AbMM2: c.AbMM2,
		SaEffMPa: c.SaEffMPa, BoltSize: c.BoltSize, Verdict: c.Verdict,
	}
}

// DC005AInput is the gland bolt hydro test variant (S = 0.83*Syb).
type DC005AInput struct {
	GMM       float64 `json:"G_mm"`
	GstemMM   float64 `json:"Gstem_mm"`
	PaTestMPa float64 `json:"Pa_test_MPa"`
	PeMPa     float64 `json:"Pe_MPa"`
	Material  string  `json:"material"`
	SybMPa    float64 `json:"Syb_MPa"`
	SMPa      float64 `json:"S_MPa"`
	N         int     `json:"n"`
	BoltSize  string  `json:"bolt_size"`
}

// DC005AResult mirrors the sheet's computed section.
type DC005AResult struct {
	SybMPa      float64 `json:"Syb_MPa"`
	SMPa        float64 `json:"S_MPa"`
	RingAreaMM2 float64 `json:"ring_area_mm2"`
	HN          float64 `json:"H_N"`
	Wm1N        float64 `json:"Wm1_N"`
	AmMM2       float64 `json:"Am_mm2"`
	AReqMM2     float64 `json:"a_req_each_mm2"`
	AMM2        float64 `json:"a_mm2"`
	AbMM2       float64 `json:"Ab_mm2"`
	SaEffMPa    float64 `json:"Sa_eff_MPa"`
	BoltSize    string  `json:"bolt_size"`
	Verdict     string  `json:"verdict"`
}

// ComputeDC005A evaluates the gland bolt check under test pressure.
func ComputeDC005A(in DC005AInput) DC005AResult {
	syb := in.SybMPa
	if syb == 0 {
		syb = BoltYieldMPa[in.Material]
	}
	s := in.SMPa
	if s == 0 {
		s = math.Round(0.83*syb*10) / 10
	}
	ring := (math.Pi / 4) * math.Max(in.GMM*in.GMM-in.GstemMM*in.GstemMM, 0)
	h := ring * in.PaTestMPa
	wm1 := h
	c := runBoltChain(wm1, s, in.N, in.BoltSize)
	return DC005AResult{
		SybMPa: syb, SMPa: s, RingAreaMM2: ring, HN: h, Wm1N: wm1,
		AmMM2: c.AmMM2, AReqMM2: c.AReqMM2, AMM2: c.AMM2, AbMM2: c.AbMM2,
		SaEffMPa: c.SaEffMPa, BoltSize: c.BoltSize, Verdict: c.Verdict,
	}
}
