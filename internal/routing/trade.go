package routing

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Route computation errors.
var (
	errEmptyRoute     = errors.New("route has no pools")
	errMissingAmounts = errors.New("route is missing amountIn or amountOut")
	errAmountOverflow = errors.New("route amounts overflow 256 bits")
)

// QueryState is the status of the quote query behind a trade.
// Data is the last successful result; CurrentData is the result for the
// current arguments and is nil while a new query is in flight.
type QueryState struct {
	IsLoading   bool
	IsError     bool
	Data        *Quote
	CurrentData *Quote
}

// TradeArgs describes the swap the user is asking about.
type TradeArgs struct {
	TradeType  TradeType
	Amount     *Amount
	Other      *Currency
	Preference RouterPreference
}

// Route is one path of a trade with its input and output amounts.
type Route struct {
	Pools  []PoolInRoute
	Input  Amount
	Output Amount
}

// Trade is a quote resolved into routes and totals.
type Trade struct {
	TradeType         TradeType
	Routes            []Route
	InputAmount       Amount
	OutputAmount      Amount
	BlockNumber       uint64
	GasUseEstimateUSD string
}

// TradeResult pairs a trade state with the trade, which is set only for
// TradeValid and TradeSyncing. Err explains an INVALID or NO_ROUTE_FOUND
// state caused by a malformed quote.
type TradeResult struct {
	State TradeState
	Trade *Trade
	Err   error
}

// ComputeTrade derives the trade state for args from the query state. A quote
// is only used when validator accepts its block; a nil validator accepts any
// non-zero block. The checks run in order: missing currency is INVALID, a
// loading query without a usable quote is LOADING, an error or missing quote
// or route is NO_ROUTE_FOUND, a failure to assemble the trade is INVALID,
// and otherwise the trade is SYNCING while CurrentData lags Data, else VALID.
func ComputeTrade(args TradeArgs, q QueryState, validator BlockValidator) TradeResult {
	if validator == nil {
		validator = BlockValidatorFunc(func(block uint64) bool { return block != 0 })
	}

	tokenIn, tokenOut := sides(args.TradeType, args.Amount, args.Other)
	if tokenIn == nil || tokenOut == nil {
		return TradeResult{State: TradeInvalid}
	}

	var quote *Quote
	if q.Data != nil && validator.IsValidBlock(q.Data.Block()) {
		quote = q.Data
	}

	if q.IsLoading && quote == nil {
		return TradeResult{State: TradeLoading}
	}

	var otherAmount *Amount
	if quote != nil {
		otherCurrency := *tokenOut
		if args.TradeType == ExactOutput {
			otherCurrency = *tokenIn
		}
		amount, err := NewAmount(otherCurrency, quote.Quote)
		if err != nil {
			return TradeResult{State: TradeInvalid, Err: fmt.Errorf("quote amount: %w", err)}
		}
		otherAmount = &amount
	}

	routes, routeErr := computeRoutes(*tokenIn, *tokenOut, quote)
	_, hasArgs := NewQuoteRequest(args.TradeType, args.Amount, args.Other, args.Preference)

	if q.IsError || otherAmount == nil || len(routes) == 0 || !hasArgs {
		return TradeResult{State: TradeNoRouteFound, Err: routeErr}
	}

	trade, err := newTrade(args.TradeType, routes, quote)
	if err != nil {
		return TradeResult{State: TradeInvalid, Err: err}
	}

	state := TradeValid
	if q.CurrentData != q.Data {
		state = TradeSyncing
	}
	return TradeResult{State: state, Trade: trade}
}

// computeRoutes turns the quote's route list into routes between in and out.
// It returns nil when there is no quote or the route endpoints do not match
// the requested currencies, and an error for malformed routes.
func computeRoutes(in, out Currency, quote *Quote) ([]Route, error) {
	if quote == nil || quote.Route == nil {
		return nil, nil
	}
	if len(quote.Route) == 0 {
		return []Route{}, nil
	}

	first := quote.Route[0]
	if len(first) == 0 {
		return nil, errEmptyRoute
	}
	if !sameAddress(first[0].TokenIn.Address, in.WrappedAddress()) ||
		!sameAddress(first[len(first)-1].TokenOut.Address, out.WrappedAddress()) {
		return nil, nil
	}

	routes := make([]Route, 0, len(quote.Route))
	for i, pools := range quote.Route {
		if len(pools) == 0 {
			return nil, fmt.Errorf("route %d: %w", i, errEmptyRoute)
		}

		rawIn, rawOut := pools[0].AmountIn, pools[len(pools)-1].AmountOut
		if rawIn == "" || rawOut == "" {
			return nil, fmt.Errorf("route %d: %w", i, errMissingAmounts)
		}

		input, err := NewAmount(in, rawIn)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		output, err := NewAmount(out, rawOut)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}

		routes = append(routes, Route{Pools: pools, Input: input, Output: output})
	}

	return routes, nil
}

// newTrade sums the routes into a trade.
func newTrade(tradeType TradeType, routes []Route, quote *Quote) (*Trade, error) {
	totalIn, totalOut := new(uint256.Int), new(uint256.Int)
	for _, r := range routes {
		if _, overflow := totalIn.AddOverflow(totalIn, r.Input.Raw); overflow {
			return nil, errAmountOverflow
		}
		if _, overflow := totalOut.AddOverflow(totalOut, r.Output.Raw); overflow {
			return nil, errAmountOverflow
		}
	}

	return &Trade{
		TradeType:         tradeType,
		Routes:            routes,
		InputAmount:       Amount{Currency: routes[0].Input.Currency, Raw: totalIn},
		OutputAmount:      Amount{Currency: routes[0].Output.Currency, Raw: totalOut},
		BlockNumber:       quote.Block(),
		GasUseEstimateUSD: quote.GasUseEstimateUSD,
	}, nil
}
