package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cross-swap/pkg/types"
)

// ErrPriceUnavailable is returned when the oracle has no USD price for a
// symbol. A missing price on either leg is fatal to the quote.
var ErrPriceUnavailable = fmt.Errorf("price unavailable")

// ErrMetadataUnavailable is returned when the oracle has no metadata for a
// token address. Callers degrade to an unknown-token placeholder.
var ErrMetadataUnavailable = fmt.Errorf("token metadata unavailable")

// Oracle supplies USD prices and token metadata.
type Oracle interface {
	GetUsdPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetTokenMetadata(ctx context.Context, chain types.Chain, address string) (types.Token, error)
}

// CoinGeckoOracle queries the CoinGecko public API.
type CoinGeckoOracle struct {
	baseURL string
	http    *http.Client
}

// NewCoinGeckoOracle creates an oracle client. baseURL defaults to the
// public CoinGecko endpoint when empty.
func NewCoinGeckoOracle(baseURL string) *CoinGeckoOracle {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &CoinGeckoOracle{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// coinIDs maps token symbols to CoinGecko coin ids.
var coinIDs = map[string]string{
	"ETH":  "ethereum",
	"WETH": "weth",
	"ATOM": "cosmos",
	"OSMO": "osmosis",
	"BTC":  "bitcoin",
	"SOL":  "solana",
	"USDC": "usd-coin",
	"USDT": "tether",
	"BNB":  "binancecoin",
}

// platformIDs maps EVM chain ids to CoinGecko contract-lookup platforms.
var platformIDs = map[string]string{
	"1":        "ethereum",
	"11155111": "ethereum",
	"56":       "binance-smart-chain",
	"137":      "polygon-pos",
	"42161":    "arbitrum-one",
}

// GetUsdPrice fetches the current USD price for a symbol.
func (o *CoinGeckoOracle) GetUsdPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	coinID, ok := coinIDs[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no coin id for symbol %q", ErrPriceUnavailable, symbol)
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", o.baseURL, coinID)
	body, err := o.get(ctx, url)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	var resp map[string]struct {
		Usd json.Number `json:"usd"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode price response: %v", ErrPriceUnavailable, err)
	}

	entry, ok := resp[coinID]
	if !ok || entry.Usd == "" {
		return decimal.Zero, fmt.Errorf("%w: no price for %s", ErrPriceUnavailable, symbol)
	}

	price, err := decimal.NewFromString(entry.Usd.String())
	if err != nil || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: invalid price for %s", ErrPriceUnavailable, symbol)
	}

	return price, nil
}

// GetTokenMetadata looks up symbol, name and decimals for a contract
// address. Only EVM chains have a contract-lookup endpoint; everything else
// reports metadata unavailable and the caller degrades.
func (o *CoinGeckoOracle) GetTokenMetadata(ctx context.Context, chain types.Chain, address string) (types.Token, error) {
	if chain.Ecosystem != types.EcosystemEVM {
		return types.Token{}, fmt.Errorf("%w: no contract lookup for %s chains", ErrMetadataUnavailable, chain.Ecosystem)
	}

	platform, ok := platformIDs[chain.ChainID]
	if !ok {
		return types.Token{}, fmt.Errorf("%w: no platform for chain %s", ErrMetadataUnavailable, chain.ChainID)
	}

	url := fmt.Sprintf("%s/coins/%s/contract/%s", o.baseURL, platform, strings.ToLower(address))
	body, err := o.get(ctx, url)
	if err != nil {
		return types.Token{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}

	var resp struct {
		Symbol          string `json:"symbol"`
		Name            string `json:"name"`
		DetailPlatforms map[string]struct {
			DecimalPlace int32 `json:"decimal_place"`
		} `json:"detail_platforms"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.Token{}, fmt.Errorf("%w: failed to decode metadata: %v", ErrMetadataUnavailable, err)
	}

	decimals := int32(18)
	if detail, ok := resp.DetailPlatforms[platform]; ok && detail.DecimalPlace > 0 {
		decimals = detail.DecimalPlace
	}

	symbol := strings.ToUpper(resp.Symbol)
	if symbol == "" {
		symbol = "UNKNOWN"
	}
	name := resp.Name
	if name == "" {
		name = "Unknown Token"
	}

	return types.Token{
		Address:   address,
		Symbol:    symbol,
		Name:      name,
		Decimals:  decimals,
		ChainID:   chain.ChainID,
		Ecosystem: chain.Ecosystem,
	}, nil
}

func (o *CoinGeckoOracle) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
