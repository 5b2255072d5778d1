package btr

import "github.com/iwvelando/dev-underwriter/pkg/datetime"

// Bid is a contractor's site work bid.
type Bid struct {
	Contractor string  `json:"contractor_name" mapstructure:"contractor"`
	Date       string  `json:"bid_date,omitempty" mapstructure:"date"`
	Amount     float64 `json:"bid_amount" mapstructure:"amount"`
	Selected   bool    `json:"is_selected" mapstructure:"selected"`
	Scope      string  `json:"scope_notes,omitempty" mapstructure:"scope"`
}

// BidSummary compares the priced bids.
type BidSummary struct {
	Count    int     `json:"count"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Average  float64 `json:"average"`
	Spread   float64 `json:"spread"`
	Latest   string  `json:"latest_bid_date,omitempty"`
	Selected *Bid    `json:"selected,omitempty"`
}

// SummarizeBids reports the range of bids with a positive amount. The first
// bid marked selected is returned whether or not it is priced. Latest is the
// most recent valid bid date; unparseable dates are skipped.
func SummarizeBids(bids []Bid) BidSummary {
	var s BidSummary
	total := 0.0
	for i := range bids {
		b := bids[i]
		if b.Selected && s.Selected == nil {
			s.Selected = &b
		}
		if b.Date != "" && datetime.ValidDate(b.Date) {
			if s.Latest == "" {
				s.Latest = b.Date
			} else if before, _ := datetime.DateBeforeDate(s.Latest, b.Date); before {
				s.Latest = b.Date
			}
		}
		if b.Amount <= 0 {
			continue
		}
		if s.Count == 0 || b.Amount < s.Low {
			s.Low = b.Amount
		}
		if s.Count == 0 || b.Amount > s.High {
			s.High = b.Amount
		}
		total += b.Amount
		s.Count++
	}
	if s.Count > 0 {
		s.Average = total / float64(s.Count)
		s.Spread = s.High - s.Low
	}
	return s
}
