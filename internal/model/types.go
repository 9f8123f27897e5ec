package model

// Side identifies the aggressor side of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// PriceLevel is a single resting level of one side of an order book.
type PriceLevel struct {
	Price  float64 // Level price
	Size   float64 // Total size resting at this price
	Orders int     // Number of orders making up the level
}

// OrderBook is a full-depth view of one instrument's book.
//
// Invariant: Bids sorted descending by price, Asks ascending, no duplicate
// price within a side. The venue sends full-depth books on every update, so
// a newer OrderBook always replaces an older one wholesale.
type OrderBook struct {
	Coin string       // Instrument identifier (case-sensitive, e.g. "BTC")
	Bids []PriceLevel // Buy side, best bid first
	Asks []PriceLevel // Sell side, best ask first
	Time int64        // Venue timestamp (ms since epoch)
}

// Trade is a single executed trade. Immutable once created.
type Trade struct {
	Coin  string  // Instrument identifier
	Side  Side    // Aggressor side
	Price float64 // Execution price
	Size  float64 // Executed size
	Time  int64   // Venue timestamp (ms since epoch)
	TID   int64   // Venue-unique trade id
	Hash  string  // Transaction hash ("" when not provided)
}

// Candle is one OHLCV bar, keyed by (Coin, Interval, OpenTime).
//
// The bar whose OpenTime is the most recent open is partial and may be
// overwritten in place by later updates; older bars are immutable.
type Candle struct {
	Coin      string  // Instrument identifier
	Interval  string  // Timeframe (see Intervals)
	OpenTime  int64   // Bar open (ms since epoch)
	CloseTime int64   // Bar close (ms since epoch)
	Open      float64 // Open price
	High      float64 // High price
	Low       float64 // Low price
	Close     float64 // Close price
	Volume    float64 // Base-asset volume
	Trades    int     // Number of trades in the bar
}

// Asset is one instrument from the venue's universe metadata.
type Asset struct {
	Name         string // Instrument identifier
	SzDecimals   int    // Size precision (decimal places)
	MaxLeverage  int    // Maximum allowed leverage
	OnlyIsolated bool   // Whether only isolated margin is allowed
}

// Position is one open perpetual position from the clearinghouse state.
type Position struct {
	Coin          string  // Instrument identifier
	Size          float64 // Signed position size (negative = short)
	EntryPrice    float64 // Average entry price
	PositionValue float64 // Current notional value
	UnrealizedPnl float64 // Unrealized profit and loss
	Leverage      float64 // Effective leverage
	MarginUsed    float64 // Margin allocated to the position
}

// AccountState is the margin summary and open positions for one user.
type AccountState struct {
	AccountValue    float64    // Total account value
	TotalNotional   float64    // Total notional position value
	TotalMarginUsed float64    // Margin in use across positions
	Withdrawable    float64    // Amount withdrawable now
	Positions       []Position // Open positions
	Time            int64      // Venue timestamp (ms since epoch)
}
