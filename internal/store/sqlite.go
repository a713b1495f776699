package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based journal store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Canonical trade records
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		day TEXT,
		entry_time TEXT,
		exit_time TEXT,
		pair TEXT NOT NULL,
		action TEXT NOT NULL,
		direction TEXT,
		lots REAL,
		stop_pips INTEGER,
		target_pips INTEGER,
		risk_ratio REAL,
		order_type TEXT,
		market_condition TEXT,
		confluences TEXT,
		mindset TEXT,
		profit_loss REAL,
		pips TEXT,
		reward TEXT,
		link TEXT,
		comments TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Per-user trading rules, one row per rule type
	CREATE TABLE IF NOT EXISTS trading_rules (
		id TEXT PRIMARY KEY,
		rule_type TEXT NOT NULL UNIQUE,
		allowed TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Rule violations, at most one per (trade, rule type)
	CREATE TABLE IF NOT EXISTS violations (
		id TEXT PRIMARY KEY,
		trade_id TEXT NOT NULL,
		rule_type TEXT NOT NULL,
		value TEXT,
		allowed TEXT,
		acknowledged INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(trade_id, rule_type),
		FOREIGN KEY (trade_id) REFERENCES trades(id)
	);

	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
	CREATE INDEX IF NOT EXISTS idx_trades_pair ON trades(pair);
	CREATE INDEX IF NOT EXISTS idx_violations_trade ON violations(trade_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Trades
// ============================================================================

const tradeColumns = "id, date, day, entry_time, exit_time, pair, action, direction, lots, stop_pips, target_pips, risk_ratio, order_type, market_condition, confluences, mindset, profit_loss, pips, reward, link, comments, created_at"

// SaveTrade saves a trade to the database.
func (s *SQLiteStore) SaveTrade(ctx context.Context, t *models.Trade) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Date, t.Day, t.EntryTime, t.ExitTime, t.Pair, t.Action, t.Direction,
		t.Lots, t.StopPips, t.TargetPips, t.RiskRatio, t.OrderType, t.MarketCondition,
		t.Confluences, t.Mindset, t.ProfitLoss, t.Pips, t.Reward, t.Link, t.Comments, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// GetTrades retrieves trades from the database, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.Pair != "" {
		query += " AND pair = ?"
		args = append(args, filter.Pair)
	}
	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date DESC, entry_time DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// GetTradeByID retrieves a single trade by ID.
func (s *SQLiteStore) GetTradeByID(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tradeColumns+" FROM trades WHERE id = ?", id)
	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, jerrors.ErrTradeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTrade replaces a persisted trade's fields.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, t *models.Trade) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE trades SET date = ?, day = ?, entry_time = ?, exit_time = ?, pair = ?, action = ?,
			direction = ?, lots = ?, stop_pips = ?, target_pips = ?, risk_ratio = ?, order_type = ?,
			market_condition = ?, confluences = ?, mindset = ?, profit_loss = ?, pips = ?, reward = ?,
			link = ?, comments = ?
		WHERE id = ?
	`, t.Date, t.Day, t.EntryTime, t.ExitTime, t.Pair, t.Action, t.Direction, t.Lots,
		t.StopPips, t.TargetPips, t.RiskRatio, t.OrderType, t.MarketCondition, t.Confluences,
		t.Mindset, t.ProfitLoss, t.Pips, t.Reward, t.Link, t.Comments, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return jerrors.ErrTradeNotFound
	}
	return nil
}

// DeleteTrade removes a trade and its violations.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM violations WHERE trade_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete trade violations: %w", err)
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return jerrors.ErrTradeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (models.Trade, error) {
	var t models.Trade
	err := row.Scan(&t.ID, &t.Date, &t.Day, &t.EntryTime, &t.ExitTime, &t.Pair, &t.Action,
		&t.Direction, &t.Lots, &t.StopPips, &t.TargetPips, &t.RiskRatio, &t.OrderType,
		&t.MarketCondition, &t.Confluences, &t.Mindset, &t.ProfitLoss, &t.Pips, &t.Reward,
		&t.Link, &t.Comments, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, err
	}
	if err != nil {
		return t, fmt.Errorf("failed to scan trade: %w", err)
	}
	return t, nil
}

// ============================================================================
// Violations
// ============================================================================

// SaveViolation records a rule violation. The (trade, rule type) pair is
// unique; re-checking a trade that already carries a violation of the same
// type is a no-op rather than a duplicate row.
func (s *SQLiteStore) SaveViolation(ctx context.Context, v *models.Violation) error {
	allowed, _ := json.Marshal(v.Allowed)
	acknowledged := 0
	if v.Acknowledged {
		acknowledged = 1
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO violations (id, trade_id, rule_type, value, allowed, acknowledged, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.TradeID, v.RuleType, v.Value, string(allowed), acknowledged, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save violation: %w", err)
	}
	return nil
}

// GetViolations retrieves violations from the database.
func (s *SQLiteStore) GetViolations(ctx context.Context, filter ViolationFilter) ([]models.Violation, error) {
	query := "SELECT id, trade_id, rule_type, value, allowed, acknowledged, created_at FROM violations WHERE 1=1"
	args := []interface{}{}

	if filter.TradeID != "" {
		query += " AND trade_id = ?"
		args = append(args, filter.TradeID)
	}
	if filter.RuleType != "" {
		query += " AND rule_type = ?"
		args = append(args, filter.RuleType)
	}
	if filter.Acknowledged != nil {
		acknowledged := 0
		if *filter.Acknowledged {
			acknowledged = 1
		}
		query += " AND acknowledged = ?"
		args = append(args, acknowledged)
	}

	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var violations []models.Violation
	for rows.Next() {
		var v models.Violation
		var allowedJSON string
		var acknowledged int
		if err := rows.Scan(&v.ID, &v.TradeID, &v.RuleType, &v.Value, &allowedJSON, &acknowledged, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		json.Unmarshal([]byte(allowedJSON), &v.Allowed)
		v.Acknowledged = acknowledged == 1
		violations = append(violations, v)
	}

	return violations, rows.Err()
}

// AcknowledgeViolation sets the acknowledgment flag on a violation.
func (s *SQLiteStore) AcknowledgeViolation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE violations SET acknowledged = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to acknowledge violation: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("violation not found: %s", id)
	}
	return nil
}

// ============================================================================
// Trading rules
// ============================================================================

// SaveRule saves a trading rule, replacing any existing rule of the same type.
func (s *SQLiteStore) SaveRule(ctx context.Context, rule *models.TradingRule) error {
	allowed, _ := json.Marshal(rule.Allowed)
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trading_rules (id, rule_type, allowed, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(rule_type) DO UPDATE SET allowed = excluded.allowed
	`, rule.ID, rule.Type, string(allowed), rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	return nil
}

// GetRules retrieves the full rule set.
func (s *SQLiteStore) GetRules(ctx context.Context) ([]models.TradingRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_type, allowed, created_at FROM trading_rules ORDER BY rule_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var ruleSet []models.TradingRule
	for rows.Next() {
		var r models.TradingRule
		var allowedJSON string
		if err := rows.Scan(&r.ID, &r.Type, &allowedJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		json.Unmarshal([]byte(allowedJSON), &r.Allowed)
		ruleSet = append(ruleSet, r)
	}

	return ruleSet, rows.Err()
}

// DeleteRule removes the rule of the given type.
func (s *SQLiteStore) DeleteRule(ctx context.Context, ruleType models.RuleType) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM trading_rules WHERE rule_type = ?", ruleType)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return jerrors.ErrRuleNotFound
	}
	return nil
}
