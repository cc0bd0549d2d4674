package market

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonnyspicer/mango"
)

// Record is the scanner's view of one Manifold market: just the fields the
// question bank needs.
type Record struct {
	ID          string
	Question    string
	URL         string
	Probability float64
	Volume      float64
	CreatedTime time.Time
	CloseTime   time.Time
	IsResolved  bool
	Resolution  string // "YES", "NO", "MKT", "CANCEL", or "" while open
}

// Scanner fetches binary markets from the Manifold API.
type Scanner struct {
	client *mango.Client
}

func NewScanner(client *mango.Client) *Scanner {
	return &Scanner{client: client}
}

// ScanOpen fetches open binary markets sorted by liquidity.
func (s *Scanner) ScanOpen(limit int64) ([]Record, error) {
	return s.scan("open", limit)
}

// ScanResolved fetches recently resolved binary markets so settled questions
// get their final outcome recorded.
func (s *Scanner) ScanResolved(limit int64) ([]Record, error) {
	return s.scan("resolved", limit)
}

func (s *Scanner) scan(filter string, limit int64) ([]Record, error) {
	markets, err := s.client.SearchMarkets(mango.SearchMarketsRequest{
		Filter:       filter,
		ContractType: "BINARY",
		Sort:         "liquidity",
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s binary markets: %w", filter, err)
	}
	if markets == nil {
		return nil, nil
	}

	result := make([]Record, 0, len(*markets))
	for _, m := range *markets {
		result = append(result, fullMarketToRecord(m))
	}
	slog.Info("scanned markets", "filter", filter, "count", len(result))
	return result, nil
}

func fullMarketToRecord(m mango.FullMarket) Record {
	return Record{
		ID:          m.Id,
		Question:    m.Question,
		URL:         m.Url,
		Probability: m.Probability,
		Volume:      m.Volume,
		CreatedTime: time.UnixMilli(m.CreatedTime),
		CloseTime:   time.UnixMilli(m.CloseTime),
		IsResolved:  m.IsResolved,
		Resolution:  m.Resolution,
	}
}
