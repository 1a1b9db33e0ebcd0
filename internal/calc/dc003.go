package calc

import "math"

// DC003Input is the bearing stress sheet input set.
type DC003Input struct {
	PMPa    float64 `json:"P_MPa"`
	DtMM    float64 `json:"Dt_mm"`
	DbMM    float64 `json:"Db_mm"`
	HbMM    float64 `json:"Hb_mm"`
	MABSMPa float64 `json:"MABS_MPa"`
}

// DC003Result mirrors the sheet's computed section.
type DC003Result struct {
	SbMM2   float64 `json:"Sb_mm2"`
	BBSMPa  float64 `json:"BBS_MPa"`
	Verdict string  `json:"verdict"`
}

// ComputeDC003 evaluates the trunnion bearing stress:
// Sb = π*Db*Hb, BBS = π*P*Dt² / (8*Sb), verified when BBS ≤ MABS.
func ComputeDC003(in DC003Input) DC003Result {
	sb := math.Pi * in.DbMM * in.HbMM
	bbs := (math.Pi * in.PMPa * in.DtMM * in.DtMM) / (8 * math.Max(sb, 1e-9))

	verdict := "NOT VERIFIED"
	if bbs <= in.MABSMPa {
		verdict = "VERIFIED"
	}
	return DC003Result{SbMM2: sb, BBSMPa: bbs, Verdict: verdict}
}
