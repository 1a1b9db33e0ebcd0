// Package calc implements the DC-sheet calculation engines for trunnion
// ball valve design. Every function is pure: inputs in, results out, no
// I/O. Reference tables follow ASME B16.34, ASME VIII and UNI-ISO 3266
// as transcribed from the design sheets.
package calc

// ASMERatingMPa maps ASME class designation to the rating pressure at
// ambient temperature (ASME B16.34, MPa).
var ASMERatingMPa = map[int]float64{
	150:  2.001,
	300:  5.17,
	400:  6.896,
	600:  10.21,
	900:  15.519,
	1500: 25.869,
	2500: 43.115,
	4500: 77.607,
}

// NPSBoreMM maps nominal pipe size (inches) to the standard internal
// bore (mm). Sizes outside the map fall back to nps*25.4 rounded to one
// decimal (see BoreDiameterMM).
var NPSBoreMM = map[float64]float64{
	0.5:  15.0,
	0.75: 20.0,
	1.0:  25.0,
	1.5:  40.0,
	2.0:  51.0,
	3.0:  78.0,
	4.0:  102.0,
	6.0:  154.0,
	8.0:  202.0,
	10.0: 254.0,
	12.0: 303.0,
}

type npsClass struct {
	NPS   float64
	Class int
}

// FaceToFaceMM holds the known face-to-face dimensions (mm) per
// NPS/class pair.
var FaceToFaceMM = map[npsClass]int{
	{2.0, 600}: 295,
}

// AllowableStressPresets lists body material allowable stresses (MPa)
// used by the valve data sheet wall thickness estimate.
var AllowableStressPresets = map[string]float64{
	"ASTM A182 F316":                          207,
	"ASTM A182 F44":                           300,
	"ASTM A350 LF3 BON":                       350,
	"ASTM A182 F6a cl.2":                      380,
	"ASTM A479 XM19 (Nitronic 50)":            380,
	"ASTM B564 UNS N06625":                    414,
	"Monel K500 Max ":                         414,
	"ASTM A694 F60":                           414,
	"ASTM A182 F51 ":                          448.5,
	"ASTM A182 F53/55":                        550,
	"ASTM A182 F6NM":                          621,
	"ASTM A564 Gr. 630 H1150+1150 (17.04 PH)": 725,
	"ASTM B637 N07750 Type2 (X 750)":          790,
	"ASTM B381 Gr. F-5":                       828,
	"ASTM B637 N07718 (Inconel 718)":          1034,
	"ASTM A182 F304":                          207,
	"ASTM A182 F304L":                         172,
	"ASTM A182 F316L":                         172,
	"ASTM A350 LF1":                           207,
	"ASTM A182 F304LN":                        207,
	"ASTM A182 F316LN":                        207,
	"ASTM A105N":                              248,
	"ASTM A350 LF2 CL.1":                      248,
}

// BoltArea is one row of the bolt tensile-stress area table. Order
// matters: closest-bolt selection walks the slice and takes the first
// size whose area covers the requirement.
type BoltArea struct {
	Size   string
	AreaMM2 float64
}

// BoltTensileAreas lists metric then UNC/UN bolt sizes with their
// tensile-stress areas (mm²).
var BoltTensileAreas = []BoltArea{
	{"M5 x 0,5", 16.1}, {"M6 x 1", 20.1}, {"M6 x 0,75", 22}, {"M8 x 1,25", 36.6}, {"M8 x 1", 39.2},
	{"M10 x 1,5", 58}, {"M10 x 1,25", 61.2}, {"M12 x 1,75", 84.3}, {"M12 x 1,25", 92.1}, {"M14 x 2", 115},
	{"M14 x 1,5", 125}, {"M16 x 2", 157}, {"M16 x 1,5", 167}, {"M18 x 2,5", 192}, {"M18 x 1,5", 216},
	{"M20 x 2,5", 245}, {"M20 x 1,5", 272}, {"M22 x 2,5", 303}, {"M22 x 1,5", 333}, {"M24 x 3", 353},
	{"M24 x 2", 384}, {"M27 x 3", 459}, {"M27 x 2", 496}, {"M30 x 3,5", 561}, {"M30 x 2", 621},
	{"M33 x 3,5", 694}, {"M33 x 2", 761}, {"M36 x 4", 817}, {"M36 x 3", 865}, {"M39 x 4", 976}, {"M39 x 3", 1030},
	{"M42 x 4,5", 1120}, {"M42 x 3", 1210}, {"M45 x 4,5", 1310}, {"M45 x 3", 1400}, {"M48 x 5", 1470},
	{"M48 x 3", 1600}, {"M52 x 5", 1760}, {"M52 x 3", 1900}, {"M56 x 5,5", 2030}, {"M56 x 4", 2140},
	{"M60 x 5,5", 2360}, {"M60 x 4", 2480}, {"M64 x 6", 2680}, {"M64 x 4", 2850}, {"M68 x 6", 3060},
	{"M68 x 4", 3240}, {"M72 x 6", 3460}, {"M72 x 4", 3660}, {"M76 x 6", 3890}, {"M76x4", 4100},
	{"M80 x 6", 4340}, {"M80 x 4", 4570}, {"M85 x 4", 5180}, {"M95 x 4", 6540}, {"M100 x 4", 7280},
	{"M105 x 4", 8050}, {"M110 x 4", 8870}, {"M115 x 4", 9720}, {"M120 x 4", 10600}, {"M125 x 4", 11500},
	{"M130 x 4", 12550}, {"M135 x 4", 13529}, {"M140 x 4", 14580}, {"M145 x 4", 15669}, {"M150 x 4", 16500},
	{`1/4" UNC`, 20.5}, {`5/16" UNC`, 33.8}, {`3/8" UNC`, 49.9}, {`7/16" UNC`, 68.6}, {`1/2" UNC`, 91.5},
	{`9/16" UNC`, 117.4}, {`5/8" UNC`, 145.8}, {`3/4" UNC`, 215.5}, {`7/8" UNC`, 298}, {`1" UNC`, 391},
	{`1-1/8" UN`, 509.7}, {`1-1/4" UN`, 645.2}, {`1-3/8" UN`, 795.5}, {`1-1/2" UN`, 962.6}, {`1-5/8" UN`, 1148.4},
	{`1-3/4" UN`, 1342}, {`1-7/8" UN`, 1555}, {`2" UN`, 1787}, {`2-1/4" UN`, 2297}, {`2-1/2" UN`, 2864.5},
	{`2-3/4 UN`, 3503}, {`3" UN`, 4200}, {`3-1/4" UN`, 4961}, {`3-1/2" UN`, 5780}, {`3-3/4" UN`, 6671},
	{`4" UN`, 7619}, {`4-1/2" UN`, 9742}, {`5" UN`, 12064}, {`5-1/2" UN`, 14645}, {`6" UN`, 17484},
}

// BoltAreaBySize returns the tensile-stress area for a size, false if
// the size is not in the table.
func BoltAreaBySize(size string) (float64, bool) {
	for _, b := range BoltTensileAreas {
		if b.Size == size {
			return b.AreaMM2, true
		}
	}
	return 0, false
}

// ClosestBolt returns the first bolt size whose tensile area covers
// areaMM2. Falls back to the largest size when nothing covers it.
func ClosestBolt(areaMM2 float64) BoltArea {
	for _, b := range BoltTensileAreas {
		if b.AreaMM2 >= areaMM2 {
			return b
		}
	}
	return BoltTensileAreas[len(BoltTensileAreas)-1]
}

// AllowableSByMaterial maps bolt material to allowable stress S (MPa),
// ASME VIII Div.1 App.2.
var AllowableSByMaterial = map[string]float64{
	"A193 B7":            172.4,
	"A193 B7 DIV.2":      241.2,
	"A193 B7M":           138,
	"A193 B7M DIV.2":     182.0,
	"A320 L7":            172.4,
	"A320 L7M":           137.9,
	"A193 B16":           172.4,
	"A320 B8 d<=18":      172.4,
	"A320 B8 20<d<=24":   137.9,
	"A320 B8 26<d<=30":   111.7,
	"A320 B8 d>=32":      86.2,
	"A320 B8M d<=18":     151.7,
	"A320 B8M 20<d<=24":  137.9,
	"A320 B8M 26<d<=30":  111.7,
	"A320 B8M d>=32":     86.2,
	"A453 Gr.660 A":      179.0,
}

// BoltYieldMPa maps bolt material to ambient yield strength Syb (MPa),
// used for hydro test allowable S = 0.83*Syb.
var BoltYieldMPa = map[string]float64{
	"A193 B7M": 550.0,
	"A193 B7":  860.0,
	"A320 L7":  620.0,
	"Custom…":  550.0,
}

// BoltAllowable carries the Div.1 (Sa) and Div.2 (Sm) limits for gland
// bolt materials (ASME II Part D, Table 3).
type BoltAllowable struct {
	Sa float64
	Sm float64
}

var BoltAllowables = map[string]BoltAllowable{
	"A193 B7":          {Sa: 172, Sm: 172},
	"A193 B7M":         {Sa: 138, Sm: 138},
	"A320 L7":          {Sa: 172, Sm: 172},
	"A193 B16":         {Sa: 172, Sm: 172},
	"A320 B8 d<18":     {Sa: 152, Sm: 152},
	"A320 B8 20≤d<24":  {Sa: 159, Sm: 159},
	"A320 B8 26≤d<30":  {Sa: 145, Sm: 145},
	"A320 B8 d≈32":     {Sa: 138, Sm: 138},
	"A320 B8M d<18":    {Sa: 152, Sm: 152},
	"A320 B8M 20≤d<24": {Sa: 152, Sm: 152},
	"A320 B8M 26≤d<30": {Sa: 131, Sm: 131},
	"A320 B8M d≈32":    {Sa: 124, Sm: 124},
	"A453 Gr.660A":     {Sa: 179, Sm: 179},
}

// SeatInsertYMaxMPa maps seat insert material to its maximum allowable
// stress Y (MPa).
var SeatInsertYMaxMPa = map[string]float64{
	"PTFE":            9.0,
	"PTFE Reinforced": 12.0,
	"NYLON 12 G":      60.0,
	"PCTFE (KELF)":    60.0,
	"PEEK":            90.0,
	"DELVON V":        60.0,
}

// GasketFactors carries the m factor and unit seating load y (MPa) for
// a gasket type (ASME VIII Div.1 App.2).
type GasketFactors struct {
	M float64
	Y float64
}

var Gaskets = map[string]GasketFactors{
	"GRAPHITE": {M: 2.0, Y: 5.0},
	"PTFE":     {M: 3.0, Y: 14.0},
	"Non-asb.": {M: 2.5, Y: 7.0},
}

// BearingMaterial is one row of the bearing material reference table.
type BearingMaterial struct {
	Material      string  `json:"material"`
	MaxStaticMPa  float64 `json:"max_static_mpa"`
	MaxDynamicMPa float64 `json:"max_dynamic_mpa"`
	MaxTempC      float64 `json:"max_temp_c"`
}

var BearingMaterials = []BearingMaterial{
	{"SS316 + FRICTION COATED", 420, 140, 150},
	{"INCONEL 625 + FRICTION COATED", 240, 140, 150},
	{"MILD STEEL + FRICTION COATED", 210, 140, 150},
	{"INCONEL 625 HT", 280, 140, 300},
	{"SS316 HT", 240, 140, 300},
}

// b1634TMin holds the ASME B16.34 Table 3A minimum wall thickness per
// NPS/class pair. Pairs outside the map use the 12.7 mm placeholder.
var b1634TMin = map[npsClass]float64{
	{2, 600}: 12.7,
}

const defaultTMinMM = 12.7

// MinWallThicknessMM looks up the B16.34 minimum wall thickness for an
// NPS/class pair. The second return reports whether the pair was in the
// table or the placeholder was used.
func MinWallThicknessMM(nps int, class int) (float64, bool) {
	if v, ok := b1634TMin[npsClass{float64(nps), class}]; ok {
		return v, true
	}
	return defaultTMinMM, false
}

// Ball sizing criteria bands (DC008).
var (
	ClassBands = []string{"150-600", "900", "1500", "2500"}

	RequiredSyMin = map[string]float64{"150-600": 170.00, "900": 205.00, "1500": 250.00, "2500": 300.00}
	RequiredDBMin = map[string]float64{"150-600": 1.50, "900": 1.55, "1500": 1.60, "2500": 1.70}
)

// ClassBand maps an ASME class number onto its sizing criteria band.
func ClassBand(class int) string {
	switch {
	case class <= 600:
		return "150-600"
	case class <= 900:
		return "900"
	case class <= 1500:
		return "1500"
	default:
		return "2500"
	}
}

// FrictionFactorRow pairs a DN (inches) with the pipe friction factor
// ft used for the K1 resistance coefficient (DC011).
type FrictionFactorRow struct {
	DNIn float64
	Ft   float64
}

var FrictionFactors = []FrictionFactorRow{
	{0.50, 0.027}, {0.75, 0.025}, {1.00, 0.023}, {1.25, 0.022},
	{1.50, 0.021}, {2.00, 0.019}, {2.50, 0.018}, {3.00, 0.018},
	{4.00, 0.017}, {5.00, 0.016}, {6.00, 0.015}, {8.00, 0.014},
	{10.0, 0.014}, {12.0, 0.013}, {14.0, 0.013}, {16.0, 0.013},
	{18.0, 0.012}, {20.0, 0.012},
}

// FrictionFactor returns ft for a DN, false when the DN has no table row.
func FrictionFactor(dnIn float64) (float64, bool) {
	for _, r := range FrictionFactors {
		if r.DNIn == dnIn {
			return r.Ft, true
		}
	}
	return 0, false
}

// Lifting eye bolt data per UNI-ISO 3266 (DC012). Rated loads are kg;
// a zero 0° rating means the table leaves the cell blank.
type EyeBolt struct {
	Thread    string  `json:"thread"`
	AreaMM2   float64 `json:"area_mm2"`
	Rated0Kg  float64 `json:"rated_0_kg"`
	Rated45Kg float64 `json:"rated_45_kg"`
}

var EyeBolts = []EyeBolt{
	{"M8", 36, 140, 95},
	{"M10", 58, 230, 170},
	{"M12", 84, 340, 240},
	{"M16", 157, 700, 500},
	{"M20", 245, 1200, 830},
	{"M24", 353, 1800, 1270},
	{"M30", 561, 3600, 2600},
	{"M36", 817, 5100, 3700},
	{"M42", 1120, 7000, 5000},
	{"M48", 1470, 8600, 6100},
	{"M56", 2030, 0, 8300},
}

// EyeBoltByThread finds the UNI-ISO 3266 row for a thread.
func EyeBoltByThread(thread string) (EyeBolt, bool) {
	for _, e := range EyeBolts {
		if e.Thread == thread {
			return e, true
		}
	}
	return EyeBolt{}, false
}

// LugMaterial describes an eye bolt material line (DC012). Allowable is
// yield/4.
type LugMaterial struct {
	Tensile   float64 `json:"tensile_mpa"`
	Yield     float64 `json:"yield_mpa"`
	Allowable float64 `json:"allowable_mpa"`
}

var LugMaterials = map[string]LugMaterial{
	"C15": {Tensile: 540.0, Yield: 295.0, Allowable: 295.0 / 4.0},
}
