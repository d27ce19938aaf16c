package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

const (
	PricesTTL    = models.TTL(120 * time.Second)
	ParamSymbols = "symbols"
	pricesSource = "coingecko"
)

// Ensure PricesSource implements interfaces.Source
var _ interfaces.Source = (*PricesSource)(nil)

// PricesSource fetches USD prices from CoinGecko
type PricesSource struct {
	client     *UpstreamClient
	baseURL    string
	maxSymbols int
	logger     *zap.Logger
}

// NewPricesSource creates the prices adapter
func NewPricesSource(cfg *config.Config, client *UpstreamClient, logger *zap.Logger) *PricesSource {
	return &PricesSource{
		client:     client,
		baseURL:    strings.TrimRight(cfg.Sources.Prices.BaseURL, "/"),
		maxSymbols: cfg.Sources.Prices.MaxSymbols,
		logger:     logger,
	}
}

func (s *PricesSource) Kind() models.WidgetKind {
	return models.WidgetKindPrices
}

func (s *PricesSource) TTL() models.TTL {
	return PricesTTL
}

func (s *PricesSource) RequiredParams() []string {
	return []string{ParamSymbols}
}

// Normalize lowercases, de-duplicates and sorts the asset ids
func (s *PricesSource) Normalize(params models.Params) (models.Params, error) {
	raw, err := requireParam(params, ParamSymbols)
	if err != nil {
		return nil, err
	}

	symbols := splitList(raw, strings.ToLower)
	if len(symbols) == 0 {
		return nil, apperr.Validation("symbols must list at least one asset", nil)
	}
	if len(symbols) > s.maxSymbols {
		return nil, apperr.Validation(fmt.Sprintf("too many symbols: at most %d allowed", s.maxSymbols), nil)
	}
	for _, symbol := range symbols {
		if err := checkParam(ParamSymbols, symbol, "max=64,asset_id"); err != nil {
			return nil, err
		}
	}

	return models.Params{{Name: ParamSymbols, Value: strings.Join(symbols, ",")}}, nil
}

type coinGeckoPrice struct {
	USD       *float64 `json:"usd"`
	Change24h *float64 `json:"usd_24h_change"`
}

// Fetch retrieves every asset in one batched request. Assets CoinGecko does
// not know are dropped; only a failed request fails the batch.
func (s *PricesSource) Fetch(ctx context.Context, params models.Params) (models.Record, error) {
	raw, _ := params.Get(ParamSymbols)
	symbols := strings.Split(raw, ",")

	query := url.Values{}
	query.Set("ids", raw)
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")

	var resp map[string]coinGeckoPrice
	if err := s.client.GetJSON(ctx, pricesSource, s.baseURL+"/api/v3/simple/price?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	list := make(models.PriceSnapshotList, 0, len(symbols))
	for _, symbol := range symbols {
		data, ok := resp[symbol]
		if !ok || data.USD == nil {
			s.logger.Debug("Dropping unknown asset from price snapshot", zap.String("symbol", symbol))
			continue
		}
		list = append(list, snapshotOf(symbol, data))
	}
	return list, nil
}

func snapshotOf(symbol string, data coinGeckoPrice) models.PriceSnapshot {
	snapshot := models.PriceSnapshot{
		Symbol: strings.ToUpper(symbol),
		Name:   symbol,
		Price:  *data.USD,
	}
	if data.Change24h != nil {
		pct := *data.Change24h
		snapshot.ChangePercentage24h = pct
		// absolute change derived from the current price and percentage
		if pct > -100 {
			snapshot.Change24h = snapshot.Price - snapshot.Price/(1+pct/100)
		}
	}
	return snapshot
}

func (s *PricesSource) Decode(data []byte) (models.Record, error) {
	var list models.PriceSnapshotList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
