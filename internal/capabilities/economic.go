package capabilities

import (
	"context"

	"orquestra/internal/adapters/brapi"
	"orquestra/pkg/errors"
)

// NewInflationCapability returns the Brazilian IPCA inflation series.
func NewInflationCapability(deps Deps) Capability {
	return newSeriesCapability(deps, CapInflation, "inflation",
		func(ctx context.Context, params brapi.SeriesParams) ([]brapi.SeriesPoint, error) {
			return deps.Market.Inflation(ctx, params)
		})
}

// NewPrimeRateCapability returns the Brazilian SELIC prime rate series.
func NewPrimeRateCapability(deps Deps) Capability {
	return newSeriesCapability(deps, CapPrimeRate, "prime_rate",
		func(ctx context.Context, params brapi.SeriesParams) ([]brapi.SeriesPoint, error) {
			return deps.Market.PrimeRate(ctx, params)
		})
}

func newSeriesCapability(deps Deps, name, resultKey string, fetch func(context.Context, brapi.SeriesParams) ([]brapi.SeriesPoint, error)) Capability {
	def := mustDefinition(name)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasMarketData() {
			return nil, errors.Wrapf(errors.ErrInternal, "%s: market data client not configured", name)
		}

		params := brapi.SeriesParams{
			Historical: boolArg(args, "historical", true),
		}
		if s := stringArg(args, "start", ""); s != "" {
			t, err := brapi.ParseSeriesDate(s)
			if err != nil {
				return nil, err
			}
			params.Start = t
		}
		if s := stringArg(args, "end", ""); s != "" {
			t, err := brapi.ParseSeriesDate(s)
			if err != nil {
				return nil, err
			}
			params.End = t
		}

		points, err := fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{resultKey: points}, nil
	})
}
