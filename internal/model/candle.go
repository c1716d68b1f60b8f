package model

// Candle is one time-bucketed OHLCV sample.
type Candle struct {
	InstrumentID int     `json:"instrumentId"`
	Date         string  `json:"date"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
}
