package calc

import "math"

// ValveMaterials groups the material selections on the valve data sheet.
type ValveMaterials struct {
	BodyClosure    string `json:"body_closure"`
	BallSeat       string `json:"ball_seat"`
	StemMaterial   string `json:"stem_material"`
	InsertMaterial string `json:"insert_material"`
	BoltsMaterial  string `json:"bolts_material"`
	FlangeEnds     string `json:"flange_ends"`
}

// AllowableStress is the body allowable stress selection: a preset name
// plus the (possibly overridden) S value.
type AllowableStress struct {
	Preset string  `json:"preset"`
	SMPa   float64 `json:"S_mpa"`
}

// ValveInput is the valve data sheet input set.
type ValveInput struct {
	NPSIn                float64         `json:"nps_in"`
	ASMEClass            int             `json:"asme_class"`
	InternalBoreMM       float64         `json:"internal_bore_mm"`
	FaceToFaceMM         int             `json:"face_to_face_mm"`
	TempMinC             int             `json:"temp_min_c"`
	TempMaxC             int             `json:"temp_max_c"`
	CorrosionAllowanceMM float64         `json:"corrosion_allowance_mm"`
	Materials            ValveMaterials  `json:"materials"`
	AllowableStress      AllowableStress `json:"allowable_stress"`
}

// ValveResult is the valve data sheet's calculated section.
type ValveResult struct {
	OperatingPressureMPa float64  `json:"operating_pressure_mpa"`
	BoreDiameterMM       float64  `json:"bore_diameter_mm"`
	FaceToFaceMM         int      `json:"face_to_face_mm"`
	BodyWallThicknessMM  *float64 `json:"body_wall_thickness_mm"`
}

// OperatingPressureMPa returns the ASME B16.34 rating pressure at
// ambient temperature for a class, zero for unknown classes.
func OperatingPressureMPa(asmeClass int) float64 {
	return ASMERatingMPa[asmeClass]
}

// BoreDiameterMM returns the standard bore for an NPS, falling back to
// nps*25.4 rounded to one decimal for sizes outside the table.
func BoreDiameterMM(nps float64) float64 {
	if v, ok := NPSBoreMM[nps]; ok {
		return v
	}
	return math.Round(nps*25.4*10) / 10
}

// F2FMM returns the face-to-face dimension for an NPS/class pair, false
// when the pair is not tabulated.
func F2FMM(nps float64, asmeClass int) (int, bool) {
	v, ok := FaceToFaceMM[npsClass{nps, asmeClass}]
	return v, ok
}

// BodyWallThicknessMM estimates the body wall thickness
// t = P*D/(2S - P) + CA, rounded to two decimals. Returns nil when the
// allowable stress cannot support the pressure.
func BodyWallThicknessMM(pMPa, dMM, sMPa, caMM float64) *float64 {
	if sMPa <= 0 || 2*sMPa-pMPa <= 0 {
		return nil
	}
	t := (pMPa*dMM)/(2*sMPa-pMPa) + caMM
	t = math.Round(t*100) / 100
	return &t
}

// ComputeValve evaluates the valve data sheet. The bore and F2F inputs
// override the table lookups when set (>0); the rating pressure always
// follows the class.
func ComputeValve(in ValveInput) ValveResult {
	p := OperatingPressureMPa(in.ASMEClass)

	bore := in.InternalBoreMM
	if bore <= 0 {
		bore = BoreDiameterMM(in.NPSIn)
	}

	f2f := in.FaceToFaceMM
	if f2f <= 0 {
		if v, ok := F2FMM(in.NPSIn, in.ASMEClass); ok {
			f2f = v
		} else {
			f2f = 295
		}
	}

	return ValveResult{
		OperatingPressureMPa: p,
		BoreDiameterMM:       bore,
		FaceToFaceMM:         f2f,
		BodyWallThicknessMM:  BodyWallThicknessMM(p, bore, in.AllowableStress.SMPa, in.CorrosionAllowanceMM),
	}
}
