package model

// FuelCategory buckets for rollups.
const (
	FuelCoal    = "coal"
	FuelGas     = "gas"
	FuelHydro   = "hydro"
	FuelWind    = "wind"
	FuelSolar   = "solar"
	FuelBattery = "battery"
	FuelOther   = "other"
)

// UnitInfo is the static registration record for a dispatchable unit.
type UnitInfo struct {
	DUID         string
	FuelType     string
	FuelCategory string
	StationName  string
	NameplateMW  float64
	Region       string
	Participant  string

	// Battery-only fields; zero for other fuel categories.
	CapacityMWh    float64
	MaxChargeMW    float64
	MaxDischargeMW float64
}

// Lookup returns the registration record for a DUID, or nil when unknown.
func Lookup(duid string) *UnitInfo {
	if u, ok := duidRegistry[duid]; ok {
		return &u
	}
	return nil
}

// IsBattery reports whether the DUID is a registered battery unit.
func IsBattery(duid string) bool {
	u, ok := duidRegistry[duid]
	return ok && u.FuelCategory == FuelBattery
}

// BatteryDUIDs returns the registered battery unit identifiers.
func BatteryDUIDs() []string {
	var out []string
	for id, u := range duidRegistry {
		if u.FuelCategory == FuelBattery {
			out = append(out, id)
		}
	}
	return out
}

// duidRegistry is compiled from the market registration and exemption list.
// It covers the units that matter for enrichment and rollups; unknown DUIDs
// degrade to the "other" bucket at rollup time.
var duidRegistry = map[string]UnitInfo{
	// Black coal - NSW
	"BW01": {DUID: "BW01", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Bayswater", NameplateMW: 660, Region: "NSW1", Participant: "AGL Macquarie"},
	"BW02": {DUID: "BW02", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Bayswater", NameplateMW: 660, Region: "NSW1", Participant: "AGL Macquarie"},
	"BW03": {DUID: "BW03", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Bayswater", NameplateMW: 660, Region: "NSW1", Participant: "AGL Macquarie"},
	"BW04": {DUID: "BW04", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Bayswater", NameplateMW: 660, Region: "NSW1", Participant: "AGL Macquarie"},
	"ER01": {DUID: "ER01", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Eraring", NameplateMW: 720, Region: "NSW1", Participant: "Origin Energy"},
	"ER02": {DUID: "ER02", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Eraring", NameplateMW: 720, Region: "NSW1", Participant: "Origin Energy"},
	"ER03": {DUID: "ER03", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Eraring", NameplateMW: 720, Region: "NSW1", Participant: "Origin Energy"},
	"ER04": {DUID: "ER04", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Eraring", NameplateMW: 720, Region: "NSW1", Participant: "Origin Energy"},
	"MP1":  {DUID: "MP1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Mt Piper", NameplateMW: 700, Region: "NSW1", Participant: "EnergyAustralia"},
	"MP2":  {DUID: "MP2", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Mt Piper", NameplateMW: 700, Region: "NSW1", Participant: "EnergyAustralia"},
	"VP5":  {DUID: "VP5", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Vales Point B", NameplateMW: 660, Region: "NSW1", Participant: "Delta Electricity"},
	"VP6":  {DUID: "VP6", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Vales Point B", NameplateMW: 660, Region: "NSW1", Participant: "Delta Electricity"},

	// Black coal - QLD
	"CALL_B_1": {DUID: "CALL_B_1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Callide B", NameplateMW: 350, Region: "QLD1", Participant: "CS Energy"},
	"CALL_B_2": {DUID: "CALL_B_2", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Callide B", NameplateMW: 350, Region: "QLD1", Participant: "CS Energy"},
	"CPP_3":    {DUID: "CPP_3", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Callide C", NameplateMW: 420, Region: "QLD1", Participant: "CS Energy"},
	"CPP_4":    {DUID: "CPP_4", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Callide C", NameplateMW: 420, Region: "QLD1", Participant: "CS Energy"},
	"GSTONE1":  {DUID: "GSTONE1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Gladstone", NameplateMW: 280, Region: "QLD1", Participant: "NRG Gladstone"},
	"GSTONE2":  {DUID: "GSTONE2", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Gladstone", NameplateMW: 280, Region: "QLD1", Participant: "NRG Gladstone"},
	"GSTONE3":  {DUID: "GSTONE3", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Gladstone", NameplateMW: 280, Region: "QLD1", Participant: "NRG Gladstone"},
	"KPP_1":    {DUID: "KPP_1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Kogan Creek", NameplateMW: 744, Region: "QLD1", Participant: "CS Energy"},
	"MPP_1":    {DUID: "MPP_1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Millmerran", NameplateMW: 426, Region: "QLD1", Participant: "Millmerran Power"},
	"MPP_2":    {DUID: "MPP_2", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Millmerran", NameplateMW: 426, Region: "QLD1", Participant: "Millmerran Power"},
	"STAN-1":   {DUID: "STAN-1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Stanwell", NameplateMW: 365, Region: "QLD1", Participant: "Stanwell"},
	"STAN-2":   {DUID: "STAN-2", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Stanwell", NameplateMW: 365, Region: "QLD1", Participant: "Stanwell"},
	"STAN-3":   {DUID: "STAN-3", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Stanwell", NameplateMW: 365, Region: "QLD1", Participant: "Stanwell"},
	"STAN-4":   {DUID: "STAN-4", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Stanwell", NameplateMW: 365, Region: "QLD1", Participant: "Stanwell"},
	"TARONG#1": {DUID: "TARONG#1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Tarong", NameplateMW: 350, Region: "QLD1", Participant: "Stanwell"},
	"TARONG#2": {DUID: "TARONG#2", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Tarong", NameplateMW: 350, Region: "QLD1", Participant: "Stanwell"},
	"TNPS1":    {DUID: "TNPS1", FuelType: "Black Coal", FuelCategory: FuelCoal, StationName: "Tarong North", NameplateMW: 443, Region: "QLD1", Participant: "Stanwell"},

	// Brown coal - VIC
	"LYA1": {DUID: "LYA1", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Loy Yang A", NameplateMW: 560, Region: "VIC1", Participant: "AGL Loy Yang"},
	"LYA2": {DUID: "LYA2", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Loy Yang A", NameplateMW: 530, Region: "VIC1", Participant: "AGL Loy Yang"},
	"LYA3": {DUID: "LYA3", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Loy Yang A", NameplateMW: 560, Region: "VIC1", Participant: "AGL Loy Yang"},
	"LYA4": {DUID: "LYA4", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Loy Yang A", NameplateMW: 530, Region: "VIC1", Participant: "AGL Loy Yang"},
	"LOYYB1": {DUID: "LOYYB1", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Loy Yang B", NameplateMW: 535, Region: "VIC1", Participant: "Alinta Energy"},
	"LOYYB2": {DUID: "LOYYB2", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Loy Yang B", NameplateMW: 580, Region: "VIC1", Participant: "Alinta Energy"},
	"YWPS1": {DUID: "YWPS1", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Yallourn W", NameplateMW: 360, Region: "VIC1", Participant: "EnergyAustralia"},
	"YWPS2": {DUID: "YWPS2", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Yallourn W", NameplateMW: 360, Region: "VIC1", Participant: "EnergyAustralia"},
	"YWPS3": {DUID: "YWPS3", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Yallourn W", NameplateMW: 380, Region: "VIC1", Participant: "EnergyAustralia"},
	"YWPS4": {DUID: "YWPS4", FuelType: "Brown Coal", FuelCategory: FuelCoal, StationName: "Yallourn W", NameplateMW: 380, Region: "VIC1", Participant: "EnergyAustralia"},

	// Gas
	"TALWA1":  {DUID: "TALWA1", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Tallawarra", NameplateMW: 440, Region: "NSW1", Participant: "EnergyAustralia"},
	"URANQ11": {DUID: "URANQ11", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Uranquinty", NameplateMW: 166, Region: "NSW1", Participant: "Origin Energy"},
	"URANQ12": {DUID: "URANQ12", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Uranquinty", NameplateMW: 166, Region: "NSW1", Participant: "Origin Energy"},
	"CG1":     {DUID: "CG1", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Colongra", NameplateMW: 181, Region: "NSW1", Participant: "Snowy Hydro"},
	"DDPS1":   {DUID: "DDPS1", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Darling Downs", NameplateMW: 644, Region: "QLD1", Participant: "Origin Energy"},
	"BRAEMAR1": {DUID: "BRAEMAR1", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Braemar", NameplateMW: 173, Region: "QLD1", Participant: "Alinta Energy"},
	"SWAN_E":  {DUID: "SWAN_E", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Swanbank E", NameplateMW: 385, Region: "QLD1", Participant: "CleanCo"},
	"MORTLK11": {DUID: "MORTLK11", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Mortlake", NameplateMW: 283, Region: "VIC1", Participant: "Origin Energy"},
	"MORTLK12": {DUID: "MORTLK12", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Mortlake", NameplateMW: 283, Region: "VIC1", Participant: "Origin Energy"},
	"NPS":     {DUID: "NPS", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Newport", NameplateMW: 500, Region: "VIC1", Participant: "EnergyAustralia"},
	"TORRB1":  {DUID: "TORRB1", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Torrens Island B", NameplateMW: 200, Region: "SA1", Participant: "AGL Energy"},
	"TORRB2":  {DUID: "TORRB2", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Torrens Island B", NameplateMW: 200, Region: "SA1", Participant: "AGL Energy"},
	"OSB-AG":  {DUID: "OSB-AG", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Osborne", NameplateMW: 180, Region: "SA1", Participant: "Origin Energy"},
	"PPCCGT":  {DUID: "PPCCGT", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Pelican Point", NameplateMW: 478, Region: "SA1", Participant: "Engie"},
	"TVPP104": {DUID: "TVPP104", FuelType: "Natural Gas", FuelCategory: FuelGas, StationName: "Tamar Valley", NameplateMW: 58, Region: "TAS1", Participant: "Hydro Tasmania"},

	// Hydro
	"TUMUT3": {DUID: "TUMUT3", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Tumut 3", NameplateMW: 1800, Region: "NSW1", Participant: "Snowy Hydro"},
	"UPPTUMUT": {DUID: "UPPTUMUT", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Upper Tumut", NameplateMW: 616, Region: "NSW1", Participant: "Snowy Hydro"},
	"MURRAY": {DUID: "MURRAY", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Murray", NameplateMW: 1500, Region: "VIC1", Participant: "Snowy Hydro"},
	"SHGEN":  {DUID: "SHGEN", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Shoalhaven", NameplateMW: 240, Region: "NSW1", Participant: "Origin Energy"},
	"BARRON-1": {DUID: "BARRON-1", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Barron Gorge", NameplateMW: 33, Region: "QLD1", Participant: "CleanCo"},
	"KAREEYA1": {DUID: "KAREEYA1", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Kareeya", NameplateMW: 21, Region: "QLD1", Participant: "CleanCo"},
	"GORDON": {DUID: "GORDON", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Gordon", NameplateMW: 432, Region: "TAS1", Participant: "Hydro Tasmania"},
	"POAT110": {DUID: "POAT110", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Poatina", NameplateMW: 100, Region: "TAS1", Participant: "Hydro Tasmania"},
	"POAT220": {DUID: "POAT220", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Poatina", NameplateMW: 200, Region: "TAS1", Participant: "Hydro Tasmania"},
	"REECE1": {DUID: "REECE1", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Reece", NameplateMW: 116, Region: "TAS1", Participant: "Hydro Tasmania"},
	"REECE2": {DUID: "REECE2", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Reece", NameplateMW: 116, Region: "TAS1", Participant: "Hydro Tasmania"},
	"DEVILS_G": {DUID: "DEVILS_G", FuelType: "Hydro", FuelCategory: FuelHydro, StationName: "Devils Gate", NameplateMW: 63, Region: "TAS1", Participant: "Hydro Tasmania"},

	// Wind
	"SAPHWF1": {DUID: "SAPHWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Sapphire", NameplateMW: 270, Region: "NSW1", Participant: "CWP Renewables"},
	"SILVSR1": {DUID: "SILVSR1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Silverton", NameplateMW: 199, Region: "NSW1", Participant: "AGL Energy"},
	"BOCORWF1": {DUID: "BOCORWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Boco Rock", NameplateMW: 113, Region: "NSW1", Participant: "EGCO"},
	"COOPGWF1": {DUID: "COOPGWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Coopers Gap", NameplateMW: 453, Region: "QLD1", Participant: "AGL Energy"},
	"MEWF1":   {DUID: "MEWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Mt Emerald", NameplateMW: 180, Region: "QLD1", Participant: "Ratch Australia"},
	"MACARTH1": {DUID: "MACARTH1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Macarthur", NameplateMW: 420, Region: "VIC1", Participant: "AGL Energy"},
	"STOCKYD1": {DUID: "STOCKYD1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Stockyard Hill", NameplateMW: 530, Region: "VIC1", Participant: "Goldwind"},
	"DUNDWF1": {DUID: "DUNDWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Dundonnell", NameplateMW: 336, Region: "VIC1", Participant: "Tilt Renewables"},
	"LKBONNY2": {DUID: "LKBONNY2", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Lake Bonney 2", NameplateMW: 159, Region: "SA1", Participant: "Infigen"},
	"HDWF1":   {DUID: "HDWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Hornsdale", NameplateMW: 102, Region: "SA1", Participant: "Neoen"},
	"HDWF2":   {DUID: "HDWF2", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Hornsdale", NameplateMW: 102, Region: "SA1", Participant: "Neoen"},
	"HDWF3":   {DUID: "HDWF3", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Hornsdale", NameplateMW: 112, Region: "SA1", Participant: "Neoen"},
	"WPWF":    {DUID: "WPWF", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Wattle Point", NameplateMW: 91, Region: "SA1", Participant: "AGL Energy"},
	"MUSSELR1": {DUID: "MUSSELR1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Musselroe", NameplateMW: 168, Region: "TAS1", Participant: "Woolnorth Wind"},
	"GRANWF1": {DUID: "GRANWF1", FuelType: "Wind", FuelCategory: FuelWind, StationName: "Granville Harbour", NameplateMW: 111, Region: "TAS1", Participant: "Palisade"},

	// Solar
	"DARLSF1": {DUID: "DARLSF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Darlington Point", NameplateMW: 275, Region: "NSW1", Participant: "Edify"},
	"SUNRSF1": {DUID: "SUNRSF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Sunraysia", NameplateMW: 229, Region: "NSW1", Participant: "John Laing"},
	"COLEASF1": {DUID: "COLEASF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Coleambally", NameplateMW: 150, Region: "NSW1", Participant: "Neoen"},
	"WDGPH1":  {DUID: "WDGPH1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Western Downs", NameplateMW: 400, Region: "QLD1", Participant: "Neoen"},
	"DAYDSF1": {DUID: "DAYDSF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Daydream", NameplateMW: 150, Region: "QLD1", Participant: "Edify"},
	"NUMURSF1": {DUID: "NUMURSF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Numurkah", NameplateMW: 112, Region: "VIC1", Participant: "Neoen"},
	"KIAMSF1": {DUID: "KIAMSF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Kiamal", NameplateMW: 200, Region: "VIC1", Participant: "Total Eren"},
	"BNGSF1":  {DUID: "BNGSF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Bungala One", NameplateMW: 110, Region: "SA1", Participant: "Enel Green Power"},
	"BNGSF2":  {DUID: "BNGSF2", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Bungala Two", NameplateMW: 110, Region: "SA1", Participant: "Enel Green Power"},
	"TB2SF1":  {DUID: "TB2SF1", FuelType: "Solar", FuelCategory: FuelSolar, StationName: "Tailem Bend 2", NameplateMW: 87, Region: "SA1", Participant: "Vena Energy"},

	// Batteries. Generation and load sides share the battery record; the
	// dispatch feed signs TotalCleared instead.
	"HPRG1":   {DUID: "HPRG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Hornsdale Power Reserve", NameplateMW: 150, Region: "SA1", Participant: "Neoen", CapacityMWh: 194, MaxChargeMW: 150, MaxDischargeMW: 150},
	"HPRL1":   {DUID: "HPRL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Hornsdale Power Reserve", NameplateMW: 150, Region: "SA1", Participant: "Neoen", CapacityMWh: 194, MaxChargeMW: 150, MaxDischargeMW: 150},
	"DALNTH01": {DUID: "DALNTH01", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Dalrymple North", NameplateMW: 30, Region: "SA1", Participant: "ElectraNet", CapacityMWh: 8, MaxChargeMW: 30, MaxDischargeMW: 30},
	"LBBG1":   {DUID: "LBBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Lake Bonney BESS", NameplateMW: 25, Region: "SA1", Participant: "Infigen", CapacityMWh: 52, MaxChargeMW: 25, MaxDischargeMW: 25},
	"LBBL1":   {DUID: "LBBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Lake Bonney BESS", NameplateMW: 25, Region: "SA1", Participant: "Infigen", CapacityMWh: 52, MaxChargeMW: 25, MaxDischargeMW: 25},
	"TIBG1":   {DUID: "TIBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Torrens Island BESS", NameplateMW: 250, Region: "SA1", Participant: "AGL Energy", CapacityMWh: 250, MaxChargeMW: 250, MaxDischargeMW: 250},
	"TIBL1":   {DUID: "TIBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Torrens Island BESS", NameplateMW: 250, Region: "SA1", Participant: "AGL Energy", CapacityMWh: 250, MaxChargeMW: 250, MaxDischargeMW: 250},
	"VBBG1":   {DUID: "VBBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Victorian Big Battery", NameplateMW: 300, Region: "VIC1", Participant: "Neoen", CapacityMWh: 450, MaxChargeMW: 300, MaxDischargeMW: 300},
	"VBBL1":   {DUID: "VBBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Victorian Big Battery", NameplateMW: 300, Region: "VIC1", Participant: "Neoen", CapacityMWh: 450, MaxChargeMW: 300, MaxDischargeMW: 300},
	"GANNBG1": {DUID: "GANNBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Gannawarra", NameplateMW: 25, Region: "VIC1", Participant: "Edify", CapacityMWh: 50, MaxChargeMW: 25, MaxDischargeMW: 25},
	"GANNBL1": {DUID: "GANNBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Gannawarra", NameplateMW: 25, Region: "VIC1", Participant: "Edify", CapacityMWh: 50, MaxChargeMW: 25, MaxDischargeMW: 25},
	"BALBG1":  {DUID: "BALBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Ballarat", NameplateMW: 30, Region: "VIC1", Participant: "Spotless", CapacityMWh: 30, MaxChargeMW: 30, MaxDischargeMW: 30},
	"BALBL1":  {DUID: "BALBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Ballarat", NameplateMW: 30, Region: "VIC1", Participant: "Spotless", CapacityMWh: 30, MaxChargeMW: 30, MaxDischargeMW: 30},
	"HAZBG1":  {DUID: "HAZBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Hazelwood BESS", NameplateMW: 150, Region: "VIC1", Participant: "Engie", CapacityMWh: 150, MaxChargeMW: 150, MaxDischargeMW: 150},
	"HAZBL1":  {DUID: "HAZBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Hazelwood BESS", NameplateMW: 150, Region: "VIC1", Participant: "Engie", CapacityMWh: 150, MaxChargeMW: 150, MaxDischargeMW: 150},
	"WALGRVG1": {DUID: "WALGRVG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Wallgrove", NameplateMW: 50, Region: "NSW1", Participant: "Transgrid", CapacityMWh: 75, MaxChargeMW: 50, MaxDischargeMW: 50},
	"WALGRVL1": {DUID: "WALGRVL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Wallgrove", NameplateMW: 50, Region: "NSW1", Participant: "Transgrid", CapacityMWh: 75, MaxChargeMW: 50, MaxDischargeMW: 50},
	"RIVNBG1": {DUID: "RIVNBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Riverina", NameplateMW: 60, Region: "NSW1", Participant: "Edify", CapacityMWh: 120, MaxChargeMW: 60, MaxDischargeMW: 60},
	"RIVNBL1": {DUID: "RIVNBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Riverina", NameplateMW: 60, Region: "NSW1", Participant: "Edify", CapacityMWh: 120, MaxChargeMW: 60, MaxDischargeMW: 60},
	"WANDBG1": {DUID: "WANDBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Wandoan South", NameplateMW: 100, Region: "QLD1", Participant: "Vena Energy", CapacityMWh: 150, MaxChargeMW: 100, MaxDischargeMW: 100},
	"WANDBL1": {DUID: "WANDBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Wandoan South", NameplateMW: 100, Region: "QLD1", Participant: "Vena Energy", CapacityMWh: 150, MaxChargeMW: 100, MaxDischargeMW: 100},
	"BOWWBG1": {DUID: "BOWWBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Bouldercombe", NameplateMW: 50, Region: "QLD1", Participant: "Genex", CapacityMWh: 100, MaxChargeMW: 50, MaxDischargeMW: 50},
	"BOWWBL1": {DUID: "BOWWBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Bouldercombe", NameplateMW: 50, Region: "QLD1", Participant: "Genex", CapacityMWh: 100, MaxChargeMW: 50, MaxDischargeMW: 50},
	"QBYNBG1": {DUID: "QBYNBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Queanbeyan", NameplateMW: 10, Region: "NSW1", Participant: "Shell Energy", CapacityMWh: 20, MaxChargeMW: 10, MaxDischargeMW: 10},
	"QBYNBL1": {DUID: "QBYNBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Queanbeyan", NameplateMW: 10, Region: "NSW1", Participant: "Shell Energy", CapacityMWh: 20, MaxChargeMW: 10, MaxDischargeMW: 10},
	"CHINBG1": {DUID: "CHINBG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Chinchilla", NameplateMW: 100, Region: "QLD1", Participant: "CS Energy", CapacityMWh: 200, MaxChargeMW: 100, MaxDischargeMW: 100},
	"CHINBL1": {DUID: "CHINBL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Chinchilla", NameplateMW: 100, Region: "QLD1", Participant: "CS Energy", CapacityMWh: 200, MaxChargeMW: 100, MaxDischargeMW: 100},
	"ADPBA1G": {DUID: "ADPBA1G", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Adelaide Desalination", NameplateMW: 6, Region: "SA1", Participant: "SA Water", CapacityMWh: 8, MaxChargeMW: 6, MaxDischargeMW: 6},
	"ADPBA1L": {DUID: "ADPBA1L", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Adelaide Desalination", NameplateMW: 6, Region: "SA1", Participant: "SA Water", CapacityMWh: 8, MaxChargeMW: 6, MaxDischargeMW: 6},
	"BULBESG1": {DUID: "BULBESG1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Bulgana", NameplateMW: 20, Region: "VIC1", Participant: "Neoen", CapacityMWh: 34, MaxChargeMW: 20, MaxDischargeMW: 20},
	"BULBESL1": {DUID: "BULBESL1", FuelType: "Battery", FuelCategory: FuelBattery, StationName: "Bulgana", NameplateMW: 20, Region: "VIC1", Participant: "Neoen", CapacityMWh: 34, MaxChargeMW: 20, MaxDischargeMW: 20},
}
