// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"forex-journal/internal/models"
)

// Store defines the interface for journal persistence.
type Store interface {
	// Trades
	SaveTrade(ctx context.Context, trade *models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	GetTradeByID(ctx context.Context, id string) (*models.Trade, error)
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	DeleteTrade(ctx context.Context, id string) error

	// Violations
	SaveViolation(ctx context.Context, v *models.Violation) error
	GetViolations(ctx context.Context, filter ViolationFilter) ([]models.Violation, error)
	AcknowledgeViolation(ctx context.Context, id string) error

	// Trading rules
	SaveRule(ctx context.Context, rule *models.TradingRule) error
	GetRules(ctx context.Context) ([]models.TradingRule, error)
	DeleteRule(ctx context.Context, ruleType models.RuleType) error

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades. Dates are ISO
// YYYY-MM-DD strings, matching the canonical trade form.
type TradeFilter struct {
	Pair      string
	Action    string
	StartDate string
	EndDate   string
	Limit     int
}

// ViolationFilter represents filters for querying violations.
type ViolationFilter struct {
	TradeID      string
	RuleType     models.RuleType
	Acknowledged *bool
	Limit        int
}
