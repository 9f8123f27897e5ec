package api

// Request bodies for the info endpoint.

type infoRequest struct {
	Type string `json:"type"`
	Coin string `json:"coin,omitempty"`
	User string `json:"user,omitempty"`
}

type candleSnapshotRequest struct {
	Type string           `json:"type"`
	Req  candleSnapshotIn `json:"req"`
}

type candleSnapshotIn struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// Wire types. These shapes are shared between the REST info endpoint and
// the WebSocket feed, so the stream router parses them too.

// Level is one order-book price level on the wire. Prices and sizes are
// decimal strings.
type Level struct {
	Px string `json:"px"` // Price
	Sz string `json:"sz"` // Size
	N  int    `json:"n"`  // Order count
}

// BookData is a full-depth l2Book payload. Levels[0] is the bid side
// (best first), Levels[1] the ask side (best first).
type BookData struct {
	Coin   string     `json:"coin"`
	Levels [2][]Level `json:"levels"`
	Time   int64      `json:"time"`
}

// TradeData is one trade on the wire. Side is "B" (buy) or "A" (sell).
type TradeData struct {
	Coin string `json:"coin"`
	Side string `json:"side"`
	Px   string `json:"px"`
	Sz   string `json:"sz"`
	Time int64  `json:"time"`
	TID  int64  `json:"tid"`
	Hash string `json:"hash"`
}

// CandleData is one OHLCV bar on the wire. The single-letter keys are the
// venue's; prices and volume are decimal strings.
type CandleData struct {
	OpenMillis  int64  `json:"t"` // Bar open (ms)
	CloseMillis int64  `json:"T"` // Bar close (ms)
	Coin        string `json:"s"` // Instrument
	Interval    string `json:"i"` // Timeframe
	Open        string `json:"o"`
	Close       string `json:"c"`
	High        string `json:"h"`
	Low         string `json:"l"`
	Volume      string `json:"v"`
	Num         int    `json:"n"` // Trade count
}

// AssetData is one universe entry from the meta operation.
type AssetData struct {
	Name         string `json:"name"`
	SzDecimals   int    `json:"szDecimals"`
	MaxLeverage  int    `json:"maxLeverage"`
	OnlyIsolated bool   `json:"onlyIsolated"`
}

type metaResponse struct {
	Universe []AssetData `json:"universe"`
}

// Clearinghouse state wire types.

type clearinghouseResponse struct {
	MarginSummary  marginSummaryData   `json:"marginSummary"`
	Withdrawable   string              `json:"withdrawable"`
	AssetPositions []assetPositionData `json:"assetPositions"`
	Time           int64               `json:"time"`
}

type marginSummaryData struct {
	AccountValue    string `json:"accountValue"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalMarginUsed string `json:"totalMarginUsed"`
}

type assetPositionData struct {
	Position positionData `json:"position"`
}

type positionData struct {
	Coin           string       `json:"coin"`
	Szi            string       `json:"szi"`
	EntryPx        string       `json:"entryPx"`
	PositionValue  string       `json:"positionValue"`
	UnrealizedPnl  string       `json:"unrealizedPnl"`
	MarginUsed     string       `json:"marginUsed"`
	LeverageDetail leverageData `json:"leverage"`
}

type leverageData struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}
