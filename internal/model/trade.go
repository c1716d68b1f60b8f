package model

// Trade is a closed position with both entry and exit recorded. Immutable
// history record.
type Trade struct {
	PositionID     int     `json:"positionId"`
	InstrumentID   int     `json:"instrumentId"`
	IsBuy          bool    `json:"isBuy"`
	OpenRate       float64 `json:"openRate"`
	CloseRate      float64 `json:"closeRate"`
	OpenTimestamp  string  `json:"openTimestamp"`
	CloseTimestamp string  `json:"closeTimestamp"`
	Investment     float64 `json:"investment"`
	NetProfit      float64 `json:"netProfit"`
	Units          float64 `json:"units"`
	Leverage       float64 `json:"leverage"`
	Fees           float64 `json:"fees"`
}

// EnrichedTrade is a Trade joined with instrument metadata.
type EnrichedTrade struct {
	Trade

	Symbol      *string `json:"symbol,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
}
