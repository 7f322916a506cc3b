package server

import (
	"math"
	"sort"

	"github.com/gundeep08/option-premium-analyzer/internal/model"
)

// TopOption is one ranked option in the serving response.
type TopOption struct {
	UnderlyingTicker string  `json:"underlying_ticker"`
	CurrentPrice     float64 `json:"current_price"`
	Strike           float64 `json:"strike"`
	OptionPrice      float64 `json:"option_price"` // previous close of the option
	Volume           int64   `json:"volume"`
	ContractTicker   string  `json:"contract_ticker"`
	ProfitScore      float64 `json:"profit_score"`
	Open             float64 `json:"open"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	VWAP             float64 `json:"vwap"`
}

// ResponseData is the success payload.
type ResponseData struct {
	TopOptions       []TopOption `json:"top_3_options"`
	QueryExecutionID string      `json:"query_execution_id"`
	DataSource       string      `json:"data_source"`
}

// Envelope is the fixed response shape. On failure Success is false, Message
// explains, and Data is absent rather than a partial list.
type Envelope struct {
	Success bool          `json:"success"`
	Data    *ResponseData `json:"data,omitempty"`
	Message string        `json:"message"`
}

// rankTop orders records by profit score descending (unscored records last,
// ties broken ascending by contract ticker) and maps the top k into the
// response shape.
func rankTop(records []model.RankedRecord, k int) []TopOption {
	sorted := make([]model.RankedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := scoreOf(sorted[i]), scoreOf(sorted[j])
		if si != sj {
			return si > sj
		}
		return sorted[i].ContractTicker < sorted[j].ContractTicker
	})

	if len(sorted) > k {
		sorted = sorted[:k]
	}

	out := make([]TopOption, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, TopOption{
			UnderlyingTicker: r.UnderlyingTicker,
			CurrentPrice:     r.CurrentPrice,
			Strike:           r.Strike,
			OptionPrice:      deref(r.Close),
			Volume:           derefInt(r.Volume),
			ContractTicker:   r.ContractTicker,
			ProfitScore:      deref(r.ProfitScore),
			Open:             deref(r.Open),
			High:             deref(r.High),
			Low:              deref(r.Low),
			VWAP:             deref(r.VWAP),
		})
	}
	return out
}

// scoreOf ranks records without a score below every scored record.
func scoreOf(r model.RankedRecord) float64 {
	if r.ProfitScore == nil {
		return negInf
	}
	return *r.ProfitScore
}

var negInf = math.Inf(-1)

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
