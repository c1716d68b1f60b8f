package model

// Instrument is read-only reference data for a tradable asset.
type Instrument struct {
	InstrumentID     int     `json:"instrumentId"`
	DisplayName      *string `json:"displayName,omitempty"`
	Symbol           *string `json:"symbol,omitempty"`
	LogoURL          *string `json:"logoUrl,omitempty"`
	StocksIndustryID *int    `json:"stocksIndustryId,omitempty"`
}

// Rate is a point-in-time quote. It is consumed during enrichment and never
// persisted.
type Rate struct {
	InstrumentID int     `json:"instrumentId"`
	Ask          float64 `json:"ask"`
	Bid          float64 `json:"bid"`
}

// Watchlist is one user watchlist with the instrument ids it references.
type Watchlist struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	InstrumentIDs []int  `json:"instrumentIds"`
}

// InstrumentSnapshot is a watchlist row: instrument metadata joined with the
// current bid, when one was returned.
type InstrumentSnapshot struct {
	InstrumentID int      `json:"instrumentId"`
	Symbol       *string  `json:"symbol,omitempty"`
	DisplayName  *string  `json:"displayName,omitempty"`
	LogoURL      *string  `json:"logoUrl,omitempty"`
	CurrentRate  *float64 `json:"currentRate,omitempty"`
}
