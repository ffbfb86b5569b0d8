package ingest

// source describes one upstream report directory. Path is appended to the
// configured base URL; Family is the filename token the scanner filters on.
type source struct {
	Name   string
	Path   string
	Family string
}

var (
	srcDispatch = source{Name: "dispatch", Path: "DispatchIS_Reports", Family: "DISPATCHIS"}
	srcScada    = source{Name: "scada", Path: "Dispatch_SCADA", Family: "DISPATCHSCADA"}
	srcP5Min    = source{Name: "p5min", Path: "P5_Reports", Family: "P5MIN"}

	srcNextDay     = source{Name: "next_day_dispatch", Path: "Next_Day_Dispatch", Family: "NEXT_DAY_DISPATCH"}
	srcTrading     = source{Name: "trading", Path: "TradingIS_Reports", Family: "TRADINGIS"}
	srcPredispatch = source{Name: "predispatch", Path: "PredispatchIS_Reports", Family: "PREDISPATCHIS"}
	srcStPasa      = source{Name: "stpasa", Path: "STPASA_Reports", Family: "STPASA"}
)

// Per-source pipeline states. Only stateDone is a success; everything else
// either ends the source's tick early or names the failing stage.
const (
	stateFetchingIndex = "FetchingIndex"
	stateNoFile        = "NoFile"
	stateFetching      = "Fetching"
	stateFetchFail     = "FetchFail"
	stateParsing       = "Parsing"
	stateParseFail     = "ParseFail"
	statePersisting    = "Persisting"
	statePersistFail   = "PersistFail"
	stateDone          = "Done"
)
