package routing

import (
	"strconv"

	"github.com/mrz1836/logosrc/internal/chain"
)

// QuoteRequest is the argument set of a quote query.
type QuoteRequest struct {
	TokenIn    Currency
	TokenOut   Currency
	Amount     Amount
	TradeType  TradeType
	Preference RouterPreference
}

// NewQuoteRequest builds the query for a swap of amount against other.
// For ExactInput, amount is the input and other the output; for ExactOutput
// the roles swap. It returns false when either side is missing or both sides
// resolve to the same wrapped token, in which case no query is made.
func NewQuoteRequest(tradeType TradeType, amount *Amount, other *Currency, pref RouterPreference) (QuoteRequest, bool) {
	tokenIn, tokenOut := sides(tradeType, amount, other)
	if tokenIn == nil || tokenOut == nil || amount == nil {
		return QuoteRequest{}, false
	}
	if tokenIn.Equals(*tokenOut) || sameAddress(tokenIn.WrappedAddress(), tokenOut.WrappedAddress()) {
		return QuoteRequest{}, false
	}

	return QuoteRequest{
		TokenIn:    *tokenIn,
		TokenOut:   *tokenOut,
		Amount:     *amount,
		TradeType:  tradeType,
		Preference: pref,
	}, true
}

// sides returns the input and output currencies for a trade.
func sides(tradeType TradeType, amount *Amount, other *Currency) (*Currency, *Currency) {
	var specified *Currency
	if amount != nil {
		specified = &amount.Currency
	}
	if tradeType == ExactInput {
		return specified, other
	}
	return other, specified
}

// Key identifies the request for change detection.
func (r QuoteRequest) Key() string {
	amount := "0"
	if r.Amount.Raw != nil {
		amount = r.Amount.Raw.Dec()
	}
	return r.TokenIn.WrappedAddress() + ":" + r.TokenIn.ChainID.String() + ">" +
		r.TokenOut.WrappedAddress() + ":" + r.TokenOut.ChainID.String() + "/" +
		amount + "/" + r.TradeType.String()
}

// Quote is a routing API quote response.
type Quote struct {
	QuoteID                     string          `json:"quoteId"`
	BlockNumber                 string          `json:"blockNumber"`
	Amount                      string          `json:"amount"`
	AmountDecimals              string          `json:"amountDecimals"`
	Quote                       string          `json:"quote"`
	QuoteDecimals               string          `json:"quoteDecimals"`
	QuoteGasAdjusted            string          `json:"quoteGasAdjusted"`
	QuoteGasAdjustedDecimals    string          `json:"quoteGasAdjustedDecimals"`
	GasPriceWei                 string          `json:"gasPriceWei"`
	GasUseEstimate              string          `json:"gasUseEstimate"`
	GasUseEstimateQuote         string          `json:"gasUseEstimateQuote"`
	GasUseEstimateQuoteDecimals string          `json:"gasUseEstimateQuoteDecimals"`
	GasUseEstimateUSD           string          `json:"gasUseEstimateUSD"`
	Route                       [][]PoolInRoute `json:"route"`
	RouteString                 string          `json:"routeString,omitempty"`
}

// Block returns the quote's block number, or 0 when it is missing or malformed.
func (q *Quote) Block() uint64 {
	if q == nil {
		return 0
	}
	n, err := strconv.ParseUint(q.BlockNumber, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// PoolInRoute is one hop of a route.
type PoolInRoute struct {
	Type      string       `json:"type"`
	Address   string       `json:"address"`
	TokenIn   TokenInRoute `json:"tokenIn"`
	TokenOut  TokenInRoute `json:"tokenOut"`
	Fee       string       `json:"fee,omitempty"`
	Liquidity string       `json:"liquidity,omitempty"`
	AmountIn  string       `json:"amountIn,omitempty"`
	AmountOut string       `json:"amountOut,omitempty"`
}

// TokenInRoute is a token as described inside a route.
type TokenInRoute struct {
	Address  string   `json:"address"`
	ChainID  chain.ID `json:"chainId"`
	Symbol   string   `json:"symbol"`
	Decimals string   `json:"decimals"`
}
