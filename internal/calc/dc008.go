package calc

// DC008Input is the ball sizing sheet input set. The criteria classes
// default to the band for ASMEClass when empty.
type DC008Input struct {
	PrMPa              float64 `json:"Pr_MPa"`
	DBallMM            float64 `json:"D_ball_mm"`
	BMM                float64 `json:"B_mm"`
	AlphaDeg           float64 `json:"alpha_deg"`
	BallMaterial       string  `json:"ball_material"`
	SyMPa              float64 `json:"Sy_MPa"`
	HMM                float64 `json:"H_mm"`
	ASMEClass          int     `json:"asme_class"`
	CriteriaClassYield string  `json:"criteria_class_yield"`
	CriteriaClassRatio string  `json:"criteria_class_ratio"`
}

// DC008Result mirrors the sheet's computed section.
type DC008Result struct {
	TMM                float64 `json:"T_mm"`
	CriteriaClassYield string  `json:"criteria_class_yield"`
	CriteriaClassRatio string  `json:"criteria_class_ratio"`
	ReqSyMin           float64 `json:"req_Sy_min"`
	ReqDBMin           float64 `json:"req_DB_min"`
	ActualDB           float64 `json:"actual_DB"`
	St1aMPa            float64 `json:"St1a_MPa"`
	Allow23SyMPa       float64 `json:"allow_23Sy_MPa"`
	CheckSy            bool    `json:"check_sy"`
	CheckDB            bool    `json:"check_db"`
	Verdict            string  `json:"verdict"`
}

// ComputeDC008 evaluates the ball sizing checks: minimum yield and D/B
// ratio per class band, then the shell hoop stress at the flat top
// St1a = Pr*(0.5*B/T + 0.6) against 2/3*Sy (ASME VIII Div.1 App.1).
func ComputeDC008(in DC008Input) DC008Result {
	band := ClassBand(in.ASMEClass)
	clsYield := in.CriteriaClassYield
	if clsYield == "" {
		clsYield = band
	}
	clsRatio := in.CriteriaClassRatio
	if clsRatio == "" {
		clsRatio = band
	}

	t := in.HMM - in.BMM/2
	reqSy := RequiredSyMin[clsYield]
	reqDB := RequiredDBMin[clsRatio]

	actualDB := 0.0
	if in.BMM != 0 {
		actualDB = in.DBallMM / in.BMM
	}

	st1a, okSt1a := 0.0, false
	if t > 0 {
		st1a, okSt1a = in.PrMPa*(0.5*in.BMM/t+0.6), true
	}
	allow := 2.0 / 3.0 * in.SyMPa

	verdict := "NOT OK"
	if okSt1a && st1a <= allow {
		verdict = "OK"
	}

	return DC008Result{
		TMM:                t,
		CriteriaClassYield: clsYield,
		CriteriaClassRatio: clsRatio,
		ReqSyMin:           reqSy,
		ReqDBMin:           reqDB,
		ActualDB:           actualDB,
		St1aMPa:            st1a,
		Allow23SyMPa:       allow,
		CheckSy:            in.SyMPa >= reqSy,
		CheckDB:            actualDB >= reqDB,
		Verdict:            verdict,
	}
}
