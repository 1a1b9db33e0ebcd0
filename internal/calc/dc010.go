package calc

import "math"

// DC010Input is the valve torque sheet. Dc, Dm, Pr and Nma carry over
// from DC001, D from DC008, Db from DC003.
type DC010Input struct {
	PoMPa float64 `json:"Po_MPa"`
	DMM   float64 `json:"D_mm"`
	DcMM  float64 `json:"Dc_mm"`
	B1MM  float64 `json:"b1_mm"`
	DmMM  float64 `json:"Dm_mm"`
	DbMM  float64 `json:"Db_mm"`
	PrN   float64 `json:"Pr_N"`
	Nma   int     `json:"Nma"`
	F1    float64 `json:"f1"`
	F2    float64 `json:"f2"`
}

// DC010Result mirrors the sheet's computed section. Torques are N·m.
type DC010Result struct {
	FbN    float64 `json:"Fb_N"`
	MtbNm  float64 `json:"Mtb_Nm"`
	FmN    float64 `json:"Fm_N"`
	MtmNm  float64 `json:"Mtm_Nm"`
	FiN    float64 `json:"Fi_N"`
	MtiNm  float64 `json:"Mti_Nm"`
	Tbb1Nm float64 `json:"Tbb1_Nm"`
}

// ComputeDC010 evaluates the break-to-open torque in single piston
// effect condition:
//
//	Fb  = π*Dc²/4 * Po          Mtb = Fb*f1*Db/2
//	Fm  = Pr*Nma                Mtm = 2*Fm*f2*0.91*D/2
//	Fi  = π*(Dc²−Dm²)/4 * Po    Mti = Fi*f2*0.91*D/2
//	Tbb1 = Mtb + Mti + Mtm
//
// Intermediate moments are N·mm and reported in N·m.
func ComputeDC010(in DC010Input) DC010Result {
	fb := (math.Pi * in.DcMM * in.DcMM / 4) * in.PoMPa
	mtb := fb * in.F1 * (in.DbMM / 2) / 1000

	fm := in.PrN * float64(in.Nma)
	mtm := 2 * fm * in.F2 * 0.91 * (in.DMM / 2) / 1000

	fi := (math.Pi * math.Max(in.DcMM*in.DcMM-in.DmMM*in.DmMM, 0) / 4) * in.PoMPa
	mti := fi * in.F2 * 0.91 * (in.DMM / 2) / 1000

	return DC010Result{
		FbN:    fb,
		MtbNm:  mtb,
		FmN:    fm,
		MtmNm:  mtm,
		FiN:    fi,
		MtiNm:  mti,
		Tbb1Nm: mtb + mti + mtm,
	}
}
