package calc

import "math"

// DC011Input is the flow coefficient sheet. Ft defaults from the
// friction factor table for DNChoiceIn when zero.
type DC011Input struct {
	InnerBoreMM float64 `json:"inner_bore_mm"`
	SeatBoreMM  float64 `json:"seat_bore_mm"`
	ThetaDeg    float64 `json:"theta_deg"`
	TaperLenMM  float64 `json:"taper_len_mm"`
	DNChoiceIn  float64 `json:"dn_choice_in"`
	Ft          float64 `json:"ft"`
}

// DC011Result mirrors the sheet's computed section. Nil fields mean
// the value could not be computed from the inputs.
type DC011Result struct {
	Beta     *float64 `json:"beta"`
	ThetaRad float64  `json:"theta_rad"`
	K1       float64  `json:"K1"`
	K2       *float64 `json:"K2"`
	Cv       *float64 `json:"Cv_gpm_at_1psi"`
}

// ComputeDC011 evaluates the Cv chain: β = seat/inner bore, K1 = 3·ft,
// K2 piecewise on the tapering angle (Crane-style reduced bore fitting)
// and Cv = 29.9·Din²/√K2 with Din in inches.
func ComputeDC011(in DC011Input) DC011Result {
	ft := in.Ft
	if ft == 0 {
		if v, ok := FrictionFactor(in.DNChoiceIn); ok {
			ft = v
		}
	}
	thetaRad := in.ThetaDeg * math.Pi / 180
	k1 := 3 * ft

	res := DC011Result{ThetaRad: thetaRad, K1: k1}
	if in.InnerBoreMM <= 0 {
		return res
	}

	beta := in.SeatBoreMM / in.InnerBoreMM
	res.Beta = &beta
	if beta <= 0 {
		return res
	}

	oneMinusBeta2 := 1 - beta*beta

	var k2 float64
	if thetaRad <= math.Pi/4 {
		term := math.Sin(thetaRad/2) * (0.8*oneMinusBeta2 + 2.6*oneMinusBeta2*oneMinusBeta2)
		k2 = (k1 + term) / math.Pow(beta, 4)
	} else {
		inside := math.Sin(thetaRad/2)*oneMinusBeta2 + oneMinusBeta2*oneMinusBeta2
		inside = math.Max(inside, 0)
		k2 = (k1 + 0.5*math.Sqrt(inside)) / math.Pow(beta, 4)
	}
	res.K2 = &k2

	if k2 > 0 {
		dIn := in.InnerBoreMM / 25.4
		cv := 29.9 * dIn * dIn / math.Sqrt(k2)
		res.Cv = &cv
	}
	return res
}
