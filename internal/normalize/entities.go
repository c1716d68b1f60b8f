package normalize

import (
	"strconv"

	"github.com/etoro-tools/portfolio-sync/internal/model"
)

// Alias tables. Order matters: spellings are tried first to last. Adding a
// new upstream variant is a one-line change here.
var (
	_positionIDKeys    = []string{"positionID", "positionId", "PositionID", "PositionId"}
	_instrumentIDKeys  = []string{"instrumentID", "instrumentId", "InstrumentID", "InstrumentId"}
	_openRateKeys      = []string{"openRate", "OpenRate"}
	_unitsKeys         = []string{"units", "Units"}
	_amountKeys        = []string{"amount", "Amount"}
	_isBuyKeys         = []string{"isBuy", "IsBuy"}
	_openDateTimeKeys  = []string{"openDateTime", "OpenDateTime"}
	_leverageKeys      = []string{"leverage", "Leverage"}
	_totalFeesKeys     = []string{"totalFees", "TotalFees"}
	_initialAmountKeys = []string{"initialAmountInDollars", "InitialAmountInDollars"}

	_displayNameKeys = []string{"instrumentDisplayName", "InstrumentDisplayName"}
	_symbolKeys      = []string{"symbolFull", "SymbolFull", "internalSymbolFull", "InternalSymbolFull"}
	_industryIDKeys  = []string{"stocksIndustryID", "stocksIndustryId", "StocksIndustryID"}
	_imagesKeys      = []string{"images", "Images"}

	_askKeys = []string{"ask", "Ask"}
	_bidKeys = []string{"bid", "Bid"}

	// Trade payloads lead with the lowercase-d spelling.
	_tradePositionIDKeys = []string{"positionId", "positionID", "PositionID"}
	_closeRateKeys       = []string{"closeRate", "CloseRate"}
	_openTimestampKeys   = []string{"openTimestamp", "OpenTimestamp"}
	_closeTimestampKeys  = []string{"closeTimestamp", "CloseTimestamp"}
	_investmentKeys      = []string{"investment", "Investment"}
	_netProfitKeys       = []string{"netProfit", "NetProfit"}
	_feesKeys            = []string{"fees", "Fees"}

	_fromDateKeys = []string{"fromDate", "FromDate"}
	_openKeys     = []string{"open", "Open"}
	_highKeys     = []string{"high", "High"}
	_lowKeys      = []string{"low", "Low"}
	_closeKeys    = []string{"close", "Close"}
	_volumeKeys   = []string{"volume", "Volume"}
)

func Position(obj map[string]interface{}) (model.Position, bool) {
	return model.Position{
		PositionID:             Int(obj, _positionIDKeys, 0),
		InstrumentID:           Int(obj, _instrumentIDKeys, 0),
		OpenRate:               Float(obj, _openRateKeys, 0),
		Units:                  Float(obj, _unitsKeys, 0),
		Amount:                 Float(obj, _amountKeys, 0),
		IsBuy:                  Bool(obj, _isBuyKeys, true),
		OpenDateTime:           String(obj, _openDateTimeKeys, ""),
		Leverage:               Float(obj, _leverageKeys, 1),
		TotalFees:              Float(obj, _totalFeesKeys, 0),
		InitialAmountInDollars: Float(obj, _initialAmountKeys, 0),
	}, true
}

func Positions(v interface{}) []model.Position {
	return mapItems(v, Position)
}

// Instrument prefers the width-50 logo, then width-35, then whatever image
// comes first.
func Instrument(obj map[string]interface{}) (model.Instrument, bool) {
	return model.Instrument{
		InstrumentID:     Int(obj, _instrumentIDKeys, 0),
		DisplayName:      StringPtr(obj, _displayNameKeys),
		Symbol:           StringPtr(obj, _symbolKeys),
		LogoURL:          logoURL(obj),
		StocksIndustryID: IntPtr(obj, _industryIDKeys),
	}, true
}

func Instruments(v interface{}) []model.Instrument {
	return mapItems(v, Instrument)
}

func logoURL(obj map[string]interface{}) *string {
	raw, ok := pick(obj, _imagesKeys)
	if !ok {
		return nil
	}
	images, ok := raw.([]interface{})
	if !ok || len(images) == 0 {
		return nil
	}

	for _, width := range []float64{50, 35} {
		for _, item := range images {
			img, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if w, _ := toFloat(img["width"]); w == width {
				if uri, ok := img["uri"].(string); ok {
					return &uri
				}
			}
		}
	}

	if img, ok := images[0].(map[string]interface{}); ok {
		if uri, ok := img["uri"].(string); ok {
			return &uri
		}
	}
	return nil
}

func Rate(obj map[string]interface{}) (model.Rate, bool) {
	return model.Rate{
		InstrumentID: Int(obj, _instrumentIDKeys, 0),
		Ask:          Float(obj, _askKeys, 0),
		Bid:          Float(obj, _bidKeys, 0),
	}, true
}

func Rates(v interface{}) []model.Rate {
	return mapItems(v, Rate)
}

func Trade(obj map[string]interface{}) (model.Trade, bool) {
	return model.Trade{
		PositionID:     Int(obj, _tradePositionIDKeys, 0),
		InstrumentID:   Int(obj, _instrumentIDKeys, 0),
		IsBuy:          Bool(obj, _isBuyKeys, true),
		OpenRate:       Float(obj, _openRateKeys, 0),
		CloseRate:      Float(obj, _closeRateKeys, 0),
		OpenTimestamp:  String(obj, _openTimestampKeys, ""),
		CloseTimestamp: String(obj, _closeTimestampKeys, ""),
		Investment:     Float(obj, _investmentKeys, 0),
		NetProfit:      Float(obj, _netProfitKeys, 0),
		Units:          Float(obj, _unitsKeys, 0),
		Leverage:       Float(obj, _leverageKeys, 1),
		Fees:           Float(obj, _feesKeys, 0),
	}, true
}

func Trades(v interface{}) []model.Trade {
	return mapItems(v, Trade)
}

func Candle(obj map[string]interface{}) (model.Candle, bool) {
	return model.Candle{
		InstrumentID: Int(obj, _instrumentIDKeys, 0),
		Date:         String(obj, _fromDateKeys, ""),
		Open:         Float(obj, _openKeys, 0),
		High:         Float(obj, _highKeys, 0),
		Low:          Float(obj, _lowKeys, 0),
		Close:        Float(obj, _closeKeys, 0),
		Volume:       Float(obj, _volumeKeys, 0),
	}, true
}

func Candles(v interface{}) []model.Candle {
	return mapItems(v, Candle)
}

var (
	_industryTaxIDKeys   = []string{"industryID", "industryId", "IndustryID"}
	_industryTaxNameKeys = []string{"industryName", "IndustryName"}

	_watchlistIDKeys   = []string{"WatchlistId", "watchlistId", "id"}
	_watchlistNameKeys = []string{"Name", "name", "displayName"}
	_itemsKeys         = []string{"Items", "items"}
	_itemTypeKeys      = []string{"ItemType", "itemType"}
	_itemIDKeys        = []string{"ItemId", "itemId"}
)

// Industries maps industryID to its display name, dropping entries missing
// either half.
func Industries(v interface{}) map[int]string {
	out := make(map[int]string)
	for _, item := range Collection(v) {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id := Int(obj, _industryTaxIDKeys, 0)
		name := String(obj, _industryTaxNameKeys, "")
		if id == 0 || name == "" {
			continue
		}
		out[id] = name
	}
	return out
}

// Watchlist keeps only lists that resolve an id, a name and at least one
// instrument item.
func Watchlist(obj map[string]interface{}) (model.Watchlist, bool) {
	var w model.Watchlist

	if idf, ok := pick(obj, _watchlistIDKeys); ok {
		if f, ok := toFloat(idf); ok {
			w.ID = formatWatchlistID(f)
		} else if s, ok := idf.(string); ok {
			w.ID = s
		}
	}
	w.Name = String(obj, _watchlistNameKeys, "")
	if w.ID == "" || w.Name == "" {
		return model.Watchlist{}, false
	}

	itemsRaw, _ := pick(obj, _itemsKeys)
	items, _ := itemsRaw.([]interface{})
	for _, item := range items {
		it, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if String(it, _itemTypeKeys, "") != "Instrument" {
			continue
		}
		if id := Int(it, _itemIDKeys, 0); id > 0 {
			w.InstrumentIDs = append(w.InstrumentIDs, id)
		}
	}
	if len(w.InstrumentIDs) == 0 {
		return model.Watchlist{}, false
	}

	return w, true
}

func Watchlists(v interface{}) []model.Watchlist {
	return mapItems(v, Watchlist)
}

func formatWatchlistID(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
