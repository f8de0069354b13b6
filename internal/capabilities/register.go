package capabilities

import (
	"orquestra/pkg/logger"
)

// RegisterAll registers every cataloged capability in the registry.
func RegisterAll(registry *Registry, deps Deps) {
	log := deps.Log
	if log == nil {
		log = logger.Get()
	}
	log = log.With("component", "capability_registration")

	registry.Register(CapIncomeStatements, NewIncomeStatementsCapability(deps))
	registry.Register(CapIncomeStatementsQuarterly, NewIncomeStatementsQuarterlyCapability(deps))
	registry.Register(CapBalanceSheetHistory, NewBalanceSheetHistoryCapability(deps))
	registry.Register(CapBalanceSheetQuarterly, NewBalanceSheetQuarterlyCapability(deps))
	log.Debug("Registered financial statement capabilities")

	registry.Register(CapQuote, NewQuoteCapability(deps))
	registry.Register(CapQuoteList, NewQuoteListCapability(deps))
	registry.Register(CapPriceIndicators, NewPriceIndicatorsCapability(deps))
	log.Debug("Registered market data capabilities")

	registry.Register(CapFinancialData, NewFinancialDataCapability(deps))
	registry.Register(CapKeyStatistics, NewKeyStatisticsCapability(deps))
	registry.Register(CapFinancialRatios, NewFinancialRatiosCapability(deps))
	log.Debug("Registered metric and ratio capabilities")

	registry.Register(CapInflation, NewInflationCapability(deps))
	registry.Register(CapPrimeRate, NewPrimeRateCapability(deps))
	log.Debug("Registered economic indicator capabilities")

	registry.Register(CapSearchNews, NewSearchNewsCapability(deps))
	log.Debug("Registered news search capabilities")

	log.Infof("Capability registration complete: %d capabilities available", len(registry.List()))
}
