package model

// Position is one open holding as reported by the upstream portfolio
// snapshot. Positions are immutable; a new fetch replaces the whole set.
type Position struct {
	PositionID             int     `json:"positionId"`
	InstrumentID           int     `json:"instrumentId"`
	OpenRate               float64 `json:"openRate"`
	Units                  float64 `json:"units"`
	Amount                 float64 `json:"amount"`
	IsBuy                  bool    `json:"isBuy"`
	OpenDateTime           string  `json:"openDateTime"`
	Leverage               float64 `json:"leverage"`
	TotalFees              float64 `json:"totalFees"`
	InitialAmountInDollars float64 `json:"initialAmountInDollars"`
}

// EnrichedPosition is a Position joined with instrument metadata and a live
// quote. Pointer fields stay nil when the matching Instrument or Rate was
// missing; nil is a valid state distinct from zero.
type EnrichedPosition struct {
	Position

	Symbol           *string `json:"symbol,omitempty"`
	DisplayName      *string `json:"displayName,omitempty"`
	LogoURL          *string `json:"logoUrl,omitempty"`
	StocksIndustryID *int    `json:"stocksIndustryId,omitempty"`
	CurrentRate      *float64 `json:"currentRate,omitempty"`
	Pnl              *float64 `json:"pnl,omitempty"`
	PnlPercent       *float64 `json:"pnlPercent,omitempty"`
}

// PortfolioData is the enriched portfolio snapshot. TotalInvested sums every
// position's amount; TotalPnl sums only positions with a resolved pnl.
type PortfolioData struct {
	Positions     []EnrichedPosition `json:"positions"`
	Credit        float64            `json:"credit"`
	TotalInvested float64            `json:"totalInvested"`
	TotalPnl      float64            `json:"totalPnl"`
}

// SymbolSummary aggregates the positions of one display symbol.
type SymbolSummary struct {
	Symbol      string             `json:"symbol"`
	LogoURL     *string            `json:"logoUrl,omitempty"`
	TotalAmount float64            `json:"totalAmount"`
	TotalPnl    float64            `json:"totalPnl"`
	AvgPnlPct   float64            `json:"avgPnlPct"`
	Positions   []EnrichedPosition `json:"positions"`
}
