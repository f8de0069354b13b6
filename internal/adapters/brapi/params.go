package brapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"orquestra/pkg/errors"
)

// Valid values accepted by the /quote endpoint.
var (
	ValidRanges = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

	ValidIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}
)

// Fundamental module identifiers for /quote.
const (
	ModuleIncomeStatementHistory          = "incomeStatementHistory"
	ModuleIncomeStatementHistoryQuarterly = "incomeStatementHistoryQuarterly"
	ModuleBalanceSheetHistory             = "balanceSheetHistory"
	ModuleBalanceSheetHistoryQuarterly    = "balanceSheetHistoryQuarterly"
	ModuleFinancialData                   = "financialData"
	ModuleDefaultKeyStatistics            = "defaultKeyStatistics"
)

// seriesDateLayout is the DD/MM/YYYY format the v2 macro endpoints expect.
const seriesDateLayout = "02/01/2006"

// ValidateRange checks a range token against the accepted list.
func ValidateRange(r string) error {
	for _, valid := range ValidRanges {
		if r == valid {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidRange, "range %q, valid: %s", r, strings.Join(ValidRanges, ", "))
}

// ValidateInterval checks an interval token against the accepted list.
func ValidateInterval(i string) error {
	for _, valid := range ValidIntervals {
		if i == valid {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidInterval, "interval %q, valid: %s", i, strings.Join(ValidIntervals, ", "))
}

// ParseSeriesDate parses a DD/MM/YYYY date as used by the macro endpoints.
func ParseSeriesDate(s string) (time.Time, error) {
	t, err := time.Parse(seriesDateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInvalidInput, "date %q must be DD/MM/YYYY", s)
	}
	return t, nil
}

// QuoteParams selects tickers and optional history/fundamental payloads.
type QuoteParams struct {
	Tickers     []string
	Range       string
	Interval    string
	Fundamental bool
	Modules     []string
}

func (p QuoteParams) validate() error {
	if len(p.Tickers) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "at least one ticker is required")
	}
	for _, t := range p.Tickers {
		if strings.TrimSpace(t) == "" {
			return errors.Wrap(errors.ErrInvalidInput, "empty ticker symbol")
		}
	}
	if p.Range != "" {
		if err := ValidateRange(p.Range); err != nil {
			return err
		}
	}
	if p.Interval != "" {
		if err := ValidateInterval(p.Interval); err != nil {
			return err
		}
	}
	return nil
}

func (p QuoteParams) path() string {
	symbols := make([]string, 0, len(p.Tickers))
	for _, t := range p.Tickers {
		symbols = append(symbols, strings.ToUpper(strings.TrimSpace(t)))
	}
	return "/quote/" + strings.Join(symbols, ",")
}

func (p QuoteParams) query() url.Values {
	q := url.Values{}
	if p.Range != "" {
		q.Set("range", p.Range)
	}
	if p.Interval != "" {
		q.Set("interval", p.Interval)
	}
	q.Set("fundamental", strconv.FormatBool(p.Fundamental))
	if len(p.Modules) > 0 {
		q.Set("modules", strings.Join(p.Modules, ","))
	}
	return q
}

// QuoteListParams filters and sorts the /quote/list screener.
type QuoteListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Sector    string
}

func (p QuoteListParams) query() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
		order := p.SortOrder
		if order == "" {
			order = "desc"
		}
		q.Set("sortOrder", order)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sector != "" {
		q.Set("sector", p.Sector)
	}
	return q
}

// SeriesParams selects a window of a v2 macro series. Zero Start/End default
// to the trailing two years, mirroring what analysts usually ask about.
type SeriesParams struct {
	Historical bool
	Start      time.Time
	End        time.Time
}

func (p SeriesParams) query(now time.Time) url.Values {
	start := p.Start
	if start.IsZero() {
		start = now.AddDate(-2, 0, 0)
	}
	end := p.End
	if end.IsZero() {
		end = now
	}

	q := url.Values{}
	q.Set("country", "brazil")
	q.Set("historical", strconv.FormatBool(p.Historical))
	q.Set("start", start.Format(seriesDateLayout))
	q.Set("end", end.Format(seriesDateLayout))
	q.Set("sortBy", "date")
	q.Set("sortOrder", "desc")
	return q
}
