package brapi

import (
	"encoding/json"

	"orquestra/pkg/errors"
)

// QuoteResponse is the envelope returned by /quote/{tickers}.
type QuoteResponse struct {
	Results     []QuoteResult `json:"results"`
	RequestedAt string        `json:"requestedAt,omitempty"`
	Took        string        `json:"took,omitempty"`
}

// QuoteResult is a single ticker's quote. Fundamental modules arrive as raw
// JSON so relaying them downstream loses nothing; the Decode helpers unpack
// the subset used for ratio math.
type QuoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName,omitempty"`
	LongName                   string  `json:"longName,omitempty"`
	Currency                   string  `json:"currency,omitempty"`
	MarketCap                  float64 `json:"marketCap,omitempty"`
	RegularMarketPrice         float64 `json:"regularMarketPrice,omitempty"`
	RegularMarketChange        float64 `json:"regularMarketChange,omitempty"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent,omitempty"`
	RegularMarketTime          string  `json:"regularMarketTime,omitempty"`
	RegularMarketDayHigh       float64 `json:"regularMarketDayHigh,omitempty"`
	RegularMarketDayLow        float64 `json:"regularMarketDayLow,omitempty"`
	RegularMarketDayRange      string  `json:"regularMarketDayRange,omitempty"`
	RegularMarketVolume        float64 `json:"regularMarketVolume,omitempty"`
	RegularMarketOpen          float64 `json:"regularMarketOpen,omitempty"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose,omitempty"`
	FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekRange          string  `json:"fiftyTwoWeekRange,omitempty"`
	PriceEarnings              float64 `json:"priceEarnings,omitempty"`
	EarningsPerShare           float64 `json:"earningsPerShare,omitempty"`
	LogoURL                    string  `json:"logourl,omitempty"`

	UsedRange           string       `json:"usedRange,omitempty"`
	UsedInterval        string       `json:"usedInterval,omitempty"`
	HistoricalDataPrice []PricePoint `json:"historicalDataPrice,omitempty"`

	IncomeStatementHistory          json.RawMessage `json:"incomeStatementHistory,omitempty"`
	IncomeStatementHistoryQuarterly json.RawMessage `json:"incomeStatementHistoryQuarterly,omitempty"`
	BalanceSheetHistory             json.RawMessage `json:"balanceSheetHistory,omitempty"`
	BalanceSheetHistoryQuarterly    json.RawMessage `json:"balanceSheetHistoryQuarterly,omitempty"`
	FinancialData                   json.RawMessage `json:"financialData,omitempty"`
	DefaultKeyStatistics            json.RawMessage `json:"defaultKeyStatistics,omitempty"`
}

// PricePoint is one OHLCV candle from historicalDataPrice.
type PricePoint struct {
	Date          int64   `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        float64 `json:"volume"`
	AdjustedClose float64 `json:"adjustedClose,omitempty"`
}

// BalanceSheet carries the balance sheet lines used for ratio math.
type BalanceSheet struct {
	EndDate                 string  `json:"endDate"`
	Cash                    float64 `json:"cash,omitempty"`
	TotalCurrentAssets      float64 `json:"totalCurrentAssets,omitempty"`
	TotalAssets             float64 `json:"totalAssets,omitempty"`
	ShortLongTermDebt       float64 `json:"shortLongTermDebt,omitempty"`
	LongTermDebt            float64 `json:"longTermDebt,omitempty"`
	TotalCurrentLiabilities float64 `json:"totalCurrentLiabilities,omitempty"`
	TotalLiab               float64 `json:"totalLiab,omitempty"`
	TotalStockholderEquity  float64 `json:"totalStockholderEquity,omitempty"`
}

// FinancialData is the financialData fundamental module.
type FinancialData struct {
	CurrentPrice      float64 `json:"currentPrice,omitempty"`
	TotalCash         float64 `json:"totalCash,omitempty"`
	TotalCashPerShare float64 `json:"totalCashPerShare,omitempty"`
	Ebitda            float64 `json:"ebitda,omitempty"`
	TotalDebt         float64 `json:"totalDebt,omitempty"`
	QuickRatio        float64 `json:"quickRatio,omitempty"`
	CurrentRatio      float64 `json:"currentRatio,omitempty"`
	TotalRevenue      float64 `json:"totalRevenue,omitempty"`
	DebtToEquity      float64 `json:"debtToEquity,omitempty"`
	RevenuePerShare   float64 `json:"revenuePerShare,omitempty"`
	ReturnOnAssets    float64 `json:"returnOnAssets,omitempty"`
	ReturnOnEquity    float64 `json:"returnOnEquity,omitempty"`
	GrossProfits      float64 `json:"grossProfits,omitempty"`
	FreeCashflow      float64 `json:"freeCashflow,omitempty"`
	OperatingCashflow float64 `json:"operatingCashflow,omitempty"`
	EarningsGrowth    float64 `json:"earningsGrowth,omitempty"`
	RevenueGrowth     float64 `json:"revenueGrowth,omitempty"`
	GrossMargins      float64 `json:"grossMargins,omitempty"`
	EbitdaMargins     float64 `json:"ebitdaMargins,omitempty"`
	OperatingMargins  float64 `json:"operatingMargins,omitempty"`
	ProfitMargins     float64 `json:"profitMargins,omitempty"`
	FinancialCurrency string  `json:"financialCurrency,omitempty"`
}

// KeyStatistics is the defaultKeyStatistics fundamental module.
type KeyStatistics struct {
	EnterpriseValue     float64 `json:"enterpriseValue,omitempty"`
	ForwardPE           float64 `json:"forwardPE,omitempty"`
	ProfitMargins       float64 `json:"profitMargins,omitempty"`
	FloatShares         float64 `json:"floatShares,omitempty"`
	SharesOutstanding   float64 `json:"sharesOutstanding,omitempty"`
	BookValue           float64 `json:"bookValue,omitempty"`
	PriceToBook         float64 `json:"priceToBook,omitempty"`
	TrailingEps         float64 `json:"trailingEps,omitempty"`
	ForwardEps          float64 `json:"forwardEps,omitempty"`
	EnterpriseToRevenue float64 `json:"enterpriseToRevenue,omitempty"`
	EnterpriseToEbitda  float64 `json:"enterpriseToEbitda,omitempty"`
	FiftyTwoWeekChange  float64 `json:"52WeekChange,omitempty"`
	DividendYield       float64 `json:"dividendYield,omitempty"`
	LastDividendValue   float64 `json:"lastDividendValue,omitempty"`
}

// DecodeBalanceSheets unpacks the annual balanceSheetHistory module.
func (q *QuoteResult) DecodeBalanceSheets() ([]BalanceSheet, error) {
	if len(q.BalanceSheetHistory) == 0 {
		return nil, nil
	}
	var sheets []BalanceSheet
	if err := json.Unmarshal(q.BalanceSheetHistory, &sheets); err != nil {
		return nil, errors.Wrapf(err, "decode balance sheet history for %s", q.Symbol)
	}
	return sheets, nil
}

// DecodeFinancialData unpacks the financialData module.
func (q *QuoteResult) DecodeFinancialData() (*FinancialData, error) {
	if len(q.FinancialData) == 0 {
		return nil, nil
	}
	var data FinancialData
	if err := json.Unmarshal(q.FinancialData, &data); err != nil {
		return nil, errors.Wrapf(err, "decode financial data for %s", q.Symbol)
	}
	return &data, nil
}

// DecodeKeyStatistics unpacks the defaultKeyStatistics module.
func (q *QuoteResult) DecodeKeyStatistics() (*KeyStatistics, error) {
	if len(q.DefaultKeyStatistics) == 0 {
		return nil, nil
	}
	var stats KeyStatistics
	if err := json.Unmarshal(q.DefaultKeyStatistics, &stats); err != nil {
		return nil, errors.Wrapf(err, "decode key statistics for %s", q.Symbol)
	}
	return &stats, nil
}

// QuoteListResponse is the envelope returned by /quote/list.
type QuoteListResponse struct {
	Stocks       []StockListItem `json:"stocks"`
	Indexes      []IndexListItem `json:"indexes,omitempty"`
	CurrentPage  int             `json:"currentPage,omitempty"`
	TotalPages   int             `json:"totalPages,omitempty"`
	ItemsPerPage int             `json:"itemsPerPage,omitempty"`
	TotalCount   int             `json:"totalCount,omitempty"`
	HasNextPage  bool            `json:"hasNextPage,omitempty"`
}

// StockListItem is one row of the stock screener.
type StockListItem struct {
	Stock     string  `json:"stock"`
	Name      string  `json:"name,omitempty"`
	Close     float64 `json:"close,omitempty"`
	Change    float64 `json:"change,omitempty"`
	Volume    float64 `json:"volume,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Type      string  `json:"type,omitempty"`
	Logo      string  `json:"logo,omitempty"`
}

// IndexListItem is one market index row from /quote/list.
type IndexListItem struct {
	Stock string `json:"stock"`
	Name  string `json:"name,omitempty"`
}

// SeriesPoint is a single observation from the v2 macro endpoints. Values
// arrive as strings ("0.53"), matching the API.
type SeriesPoint struct {
	Date      string `json:"date"`
	Value     string `json:"value"`
	EpochDate int64  `json:"epochDate,omitempty"`
}

type inflationResponse struct {
	Inflation []SeriesPoint `json:"inflation"`
}

type primeRateResponse struct {
	PrimeRate []SeriesPoint `json:"prime-rate"`
}

type apiError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
