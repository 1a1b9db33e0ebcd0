package calc

// Lifting angle labels on the DC012 sheet.
const (
	AngleStraight = "0° (straight)"
	Angle45       = "45°"
)

// DC012Input is the lifting lugs sheet input set. AMM2 and FRatedKg
// default from the UNI-ISO 3266 table for the chosen thread and angle
// when zero; Material defaults to C15.
type DC012Input struct {
	PKg      float64 `json:"P_kg"`
	Thread   string  `json:"thread"`
	AMM2     float64 `json:"A_mm2"`
	N        int     `json:"N"`
	Angle    string  `json:"angle"`
	FRatedKg float64 `json:"F_rated_kg"`
	Material string  `json:"material"`
}

// DC012Result mirrors the sheet's computed section.
type DC012Result struct {
	PerBoltKg    float64 `json:"per_bolt_kg"`
	EcOK         bool    `json:"Ec_ok"`
	EsMPa        float64 `json:"Es_MPa"`
	Material     string  `json:"material"`
	AllowableMPa float64 `json:"allowable_MPa"`
	StressOK     bool    `json:"stress_ok"`
}

const gravity = 9.81

// ComputeDC012 checks the lifting eye bolts: per-bolt load against the
// UNI-ISO 3266 rated load, then the effective stress Es = P·g/(N·A)
// against the material allowable (yield/4).
func ComputeDC012(in DC012Input) DC012Result {
	a := in.AMM2
	rated := in.FRatedKg
	if eb, ok := EyeBoltByThread(in.Thread); ok {
		if a == 0 {
			a = eb.AreaMM2
		}
		if rated == 0 {
			if in.Angle == Angle45 {
				rated = eb.Rated45Kg
			} else {
				rated = eb.Rated0Kg
			}
		}
	}

	matName := in.Material
	if matName == "" {
		matName = "C15"
	}
	mat := LugMaterials[matName]

	n := in.N
	if n < 1 {
		n = 1
	}

	perBolt := in.PKg / float64(n)
	ecOK := rated > 0 && perBolt <= rated

	es := 0.0
	if a > 0 {
		es = in.PKg * gravity / (float64(n) * a)
	}
	stressOK := a > 0 && es <= mat.Allowable

	return DC012Result{
		PerBoltKg:    perBolt,
		EcOK:         ecOK,
		EsMPa:        es,
		Material:     matName,
		AllowableMPa: mat.Allowable,
		StressOK:     stressOK,
	}
}
