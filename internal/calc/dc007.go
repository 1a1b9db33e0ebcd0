package calc

// DC007BodyInput is the body wall thickness sheet (ASME B16.34).
type DC007BodyInput struct {
	PaMPa         float64 `json:"Pa_MPa"`
	TC            string  `json:"T_C"`
	CAMM          float64 `json:"CA_mm"`
	Material      string  `json:"material"`
	BodyIDMM      float64 `json:"body_ID_mm"`
	FlowPassDMM   float64 `json:"flow_pass_d_mm"`
	EndFlangeIDMM float64 `json:"end_flange_ID_mm"`
	TBodyMM       float64 `json:"t_body_mm"`
	TBodyTopMM    float64 `json:"t_body_top_mm"`
	NPSIn         int     `json:"nps_in"`
	ASMEClass     int     `json:"asme_class"`
}

// DC007BodyResult mirrors the sheet's computed section.
type DC007BodyResult struct {
	TmMM         float64 `json:"t_m_mm"`
	TmPlusCAMM   float64 `json:"t_m_plus_CA_mm"`
	OKBodyVsTm   bool    `json:"ok_body_vs_tm"`
	OKTopVsTm    bool    `json:"ok_top_vs_tm"`
	OKBodyVsTmCA bool    `json:"ok_body_vs_tmCA"`
	OKTopVsTmCA  bool    `json:"ok_top_vs_tmCA"`
}

// ComputeDC007Body checks the actual body and top-mill thicknesses
// against the B16.34 minimum wall thickness and the minimum plus
// corrosion allowance.
func ComputeDC007Body(in DC007BodyInput) DC007BodyResult {
	tm, _ := MinWallThicknessMM(in.NPSIn, in.ASMEClass)
	tmCA := tm + in.CAMM
	return DC007BodyResult{
		TmMM:         tm,
		TmPlusCAMM:   tmCA,
		OKBodyVsTm:   in.TBodyMM >= tm,
		OKTopVsTm:    in.TBodyTopMM >= tm,
		OKBodyVsTmCA: in.TBodyMM >= tmCA,
		OKTopVsTmCA:  in.TBodyTopMM >= tmCA,
	}
}

// DC007HolesInput is the drilled-and-tapped holes sheet. TmMM carries
// over from the body sheet (tm + C/A on the original).
type DC007HolesInput struct {
	TmMM    float64 `json:"t_m_mm"`
	FMinMM  float64 `json:"f_min_mm"`
	FGMinMM float64 `json:"fg_min_mm"`
	EMinMM  float64 `json:"e_min_mm"`
}

// DC007HolesResult mirrors the sheet's computed section.
type DC007HolesResult struct {
	ReqFMM    float64 `json:"req_f_mm"`
	ReqFGMM   float64 `json:"req_fg_mm"`
	ReqEMM    float64 `json:"req_e_mm"`
	OKF       bool    `json:"ok_f"`
	OKFG      bool    `json:"ok_fg"`
	OKE       bool    `json:"ok_e"`
	OverallOK bool    `json:"overall_ok"`
}

// ComputeDC007Holes checks the hole region thicknesses per B16.34
// §6.1.1: f' ≥ 0.25·tm, f'+g' ≥ tm, e ≥ 0.25·tm.
func ComputeDC007Holes(in DC007HolesInput) DC007HolesResult {
	reqF := 0.25 * in.TmMM
	reqFG := in.TmMM
	reqE := 0.25 * in.TmMM

	okF := in.FMinMM >= reqF
	okFG := in.FGMinMM >= reqFG
	okE := in.EMinMM >= reqE

	return DC007HolesResult{
		ReqFMM: reqF, ReqFGMM: reqFG, ReqEMM: reqE,
		OKF: okF, OKFG: okFG, OKE: okE,
		OverallOK: okF && okFG && okE,
	}
}
