package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/chain/eth"
	"github.com/mrz1836/logosrc/internal/output"
	"github.com/mrz1836/logosrc/internal/routing"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

// watchRefresh is how often watch mode re-evaluates the trade state.
const watchRefresh = 500 * time.Millisecond

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	quoteChain        string
	quoteIn           string
	quoteOut          string
	quoteAmount       string
	quoteType         string
	quoteInDecimals   int
	quoteOutDecimals  int
	quotePreference   string
	quoteWatch        bool
	quoteWatchRefresh = watchRefresh
)

// quoteCmd fetches a swap quote and reports the trade state.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Get a swap quote and its trade state",
	Long: `Request a quote from the routing API and report the resulting trade state.

Tokens are given as addresses, or as "native" (or the chain's native symbol)
for the native currency, which is routed through its wrapped token. The
amount is in human units of the input token for exactIn trades and of the
output token for exactOut trades.

The state is one of INVALID, LOADING, NO_ROUTE_FOUND, SYNCING or VALID. With
--watch the quote is polled every block (every two minutes for the price
preference) until interrupted and each state change is printed.`,
	Example: `  logosrc quote --chain kroma --in ETH --out 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --amount 1
  logosrc quote --in 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --in-decimals 6 --out native --amount 100
  logosrc quote --in ETH --out 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --out-decimals 6 --amount 50 --type exactOut
  logosrc quote --in ETH --out 0x0257e4d92C00C9EfcCa1d641b224d7d09cfa4522 --amount 1 --watch`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

// QuoteResponse is one evaluation of the quote command.
type QuoteResponse struct {
	State     string `json:"state"`
	TradeType string `json:"trade_type"`
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
	AmountIn  string `json:"amount_in,omitempty"`
	AmountOut string `json:"amount_out,omitempty"`
	Route     string `json:"route,omitempty"`
	Block     uint64 `json:"block,omitempty"`
	GasUSD    string `json:"gas_usd,omitempty"`
	QuoteID   string `json:"quote_id,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	quoteCmd.GroupID = "data"
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteChain, "chain", "kroma", "chain name or id")
	quoteCmd.Flags().StringVar(&quoteIn, "in", "", "input token address or native (required)")
	quoteCmd.Flags().StringVar(&quoteOut, "out", "", "output token address or native (required)")
	quoteCmd.Flags().StringVar(&quoteAmount, "amount", "", "amount in human units, e.g. 1.5 (required)")
	quoteCmd.Flags().StringVar(&quoteType, "type", "exactIn", "trade type: exactIn or exactOut")
	quoteCmd.Flags().IntVar(&quoteInDecimals, "in-decimals", 18, "decimals of the input token")
	quoteCmd.Flags().IntVar(&quoteOutDecimals, "out-decimals", 18, "decimals of the output token")
	quoteCmd.Flags().StringVar(&quotePreference, "preference", "", "router preference: api, client or price (default: configured)")
	quoteCmd.Flags().BoolVar(&quoteWatch, "watch", false, "keep polling and print state changes until interrupted")

	_ = quoteCmd.MarkFlagRequired("in")
	_ = quoteCmd.MarkFlagRequired("out")
	_ = quoteCmd.MarkFlagRequired("amount")
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cmdCtx := GetCmdContext(cmd)

	args, err := buildTradeArgs(cmdCtx)
	if err != nil {
		return err
	}
	req, ok := routing.NewQuoteRequest(args.TradeType, args.Amount, args.Other, args.Preference)
	if !ok {
		return logoerr.WithSuggestion(logoerr.ErrInvalidInput, "--in and --out must be different tokens")
	}

	client, err := cmdCtx.NewRoutingClient()
	if err != nil {
		return err
	}
	tracker := routing.NewTracker(client, routing.WithLogger(cmdCtx.Log))
	tracker.SetRequest(req, true)
	cmdCtx.Log.Debug("quote request %s via %s", req.Key(), cmdCtx.Cfg.GetQuoteAPI())

	if quoteWatch {
		return watchQuote(cmd, cmdCtx, tracker, args)
	}

	ctx, cancel := contextWithTimeout(cmd, cmdCtx.quoteTimeout())
	defer cancel()

	pollErr := tracker.Poll(ctx)
	if pollErr != nil && !logoerr.Is(pollErr, logoerr.ErrNoRoute) {
		return pollErr
	}

	response := newQuoteResponse(args, tracker)
	if err := printQuote(cmd.OutOrStdout(), cmdCtx, response); err != nil {
		return err
	}
	return pollErr
}

// watchQuote polls in the background and prints each change of state or
// quote until the command is interrupted.
func watchQuote(cmd *cobra.Command, cmdCtx *CommandContext, tracker *routing.Tracker, args routing.TradeArgs) error {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tracker.Run(ctx)
	}()

	ticker := time.NewTicker(quoteWatchRefresh)
	defer ticker.Stop()

	var last QuoteResponse
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case <-ticker.C:
		}

		response := newQuoteResponse(args, tracker)
		if response == last {
			continue
		}
		last = response
		if err := printQuote(cmd.OutOrStdout(), cmdCtx, response); err != nil {
			return err
		}
	}
}

// buildTradeArgs turns the quote flags into trade arguments.
func buildTradeArgs(cmdCtx *CommandContext) (routing.TradeArgs, error) {
	chainID, err := chain.ParseID(quoteChain)
	if err != nil {
		return routing.TradeArgs{}, err
	}

	tradeType, err := routing.ParseTradeType(quoteType)
	if err != nil {
		return routing.TradeArgs{}, err
	}

	tokenIn, err := parseCurrency(quoteIn, chainID, quoteInDecimals)
	if err != nil {
		return routing.TradeArgs{}, err
	}
	tokenOut, err := parseCurrency(quoteOut, chainID, quoteOutDecimals)
	if err != nil {
		return routing.TradeArgs{}, err
	}

	specified, other := tokenIn, tokenOut
	if tradeType == routing.ExactOutput {
		specified, other = tokenOut, tokenIn
	}

	raw, err := routing.ParseUnits(quoteAmount, specified.Decimals)
	if err != nil {
		return routing.TradeArgs{}, err
	}
	if raw.IsZero() {
		return routing.TradeArgs{}, logoerr.WithDetails(logoerr.ErrInvalidAmount, map[string]string{
			"amount": quoteAmount,
			"reason": "must be greater than zero",
		})
	}

	pref := quotePreference
	if pref == "" {
		pref = cmdCtx.Cfg.GetRouterPreference()
	}

	return routing.TradeArgs{
		TradeType:  tradeType,
		Amount:     &routing.Amount{Currency: specified, Raw: raw},
		Other:      &other,
		Preference: routing.ParsePreference(pref),
	}, nil
}

// parseCurrency accepts "native", the chain's native symbol, or a token address.
func parseCurrency(value string, chainID chain.ID, decimals int) (routing.Currency, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "native") || strings.EqualFold(value, chainID.NativeCurrency()) {
		native := routing.Native(chainID)
		if native.WrappedAddress() == "" {
			return routing.Currency{}, logoerr.WithDetails(logoerr.ErrUnsupportedChain, map[string]string{
				"chain":  chainLabel(chainID),
				"reason": "no wrapped native token known",
			})
		}
		return native, nil
	}

	address, err := eth.NormalizeAddress(value)
	if err != nil {
		return routing.Currency{}, logoerr.WithSuggestion(err, "pass a token address or 'native'")
	}
	if decimals < 0 || decimals > 255 {
		return routing.Currency{}, logoerr.WithDetails(logoerr.ErrInvalidInput, map[string]string{
			"decimals": strconv.Itoa(decimals),
			"reason":   "must be between 0 and 255",
		})
	}
	return routing.Currency{ChainID: chainID, Address: address, Decimals: decimals}, nil
}

// newQuoteResponse evaluates the tracker's current trade.
func newQuoteResponse(args routing.TradeArgs, tracker *routing.Tracker) QuoteResponse {
	result := tracker.Trade(args)

	in, out := currencyLabel(args.Amount.Currency), currencyLabel(*args.Other)
	if args.TradeType == routing.ExactOutput {
		in, out = out, in
	}

	response := QuoteResponse{
		State:     result.State.String(),
		TradeType: args.TradeType.String(),
		TokenIn:   in,
		TokenOut:  out,
	}

	if trade := result.Trade; trade != nil {
		response.AmountIn = trade.InputAmount.Decimal()
		response.AmountOut = trade.OutputAmount.Decimal()
		response.Route = routeLabel(trade.Routes)
		response.Block = trade.BlockNumber
		response.GasUSD = trade.GasUseEstimateUSD
		if data := tracker.State().Data; data != nil {
			response.QuoteID = data.QuoteID
		}
	}
	return response
}

func currencyLabel(c routing.Currency) string {
	if c.IsNative {
		return c.Symbol
	}
	if c.Symbol != "" {
		return c.Symbol
	}
	return c.Address
}

// routeLabel renders routes as "WETH > USDC" paths separated by "; ".
func routeLabel(routes []routing.Route) string {
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		if len(r.Pools) == 0 {
			continue
		}
		hops := []string{tokenLabel(r.Pools[0].TokenIn)}
		for _, p := range r.Pools {
			hops = append(hops, tokenLabel(p.TokenOut))
		}
		paths = append(paths, strings.Join(hops, " > "))
	}
	return strings.Join(paths, "; ")
}

func tokenLabel(t routing.TokenInRoute) string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address
}

func printQuote(w io.Writer, cmdCtx *CommandContext, r QuoteResponse) error {
	if cmdCtx.Fmt.Format() == output.FormatJSON {
		return writeJSON(w, r)
	}

	block := ""
	if r.Block != 0 {
		block = strconv.FormatUint(r.Block, 10)
	}
	return output.NewFormatter(output.FormatText, w).PrintFields(
		output.Field{Label: "State", Value: r.State},
		output.Field{Label: "Type", Value: r.TradeType},
		output.Field{Label: "In", Value: joinAmount(r.AmountIn, r.TokenIn)},
		output.Field{Label: "Out", Value: joinAmount(r.AmountOut, r.TokenOut)},
		output.Field{Label: "Route", Value: r.Route},
		output.Field{Label: "Block", Value: block},
		output.Field{Label: "Gas (USD)", Value: r.GasUSD},
	)
}

func joinAmount(amount, token string) string {
	if amount == "" {
		return token
	}
	return amount + " " + token
}
