package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	createQuotesSQL = `CREATE TABLE IF NOT EXISTS quotes (
        symbol TEXT PRIMARY KEY,
        market_cap_usd REAL,
        last_updated_us INTEGER
    );`

	createBalanceSheetsSQL = `CREATE TABLE IF NOT EXISTS balance_sheets (
        symbol TEXT PRIMARY KEY,
        book REAL,
        currency TEXT,
        last_updated_us INTEGER
    );`

	createIncomesSQL = `CREATE TABLE IF NOT EXISTS incomes (
        symbol TEXT PRIMARY KEY,
        profit REAL,
        revenue REAL,
        currency TEXT,
        last_updated_us INTEGER
    );`

	upsertQuoteSQL = `INSERT INTO quotes (symbol, market_cap_usd, last_updated_us)
    VALUES (?, ?, ?)
    ON CONFLICT (symbol) DO UPDATE
    SET market_cap_usd  = excluded.market_cap_usd,
        last_updated_us = excluded.last_updated_us;`

	upsertBalanceSheetSQL = `INSERT INTO balance_sheets (symbol, book, currency, last_updated_us)
    VALUES (?, ?, ?, ?)
    ON CONFLICT (symbol) DO UPDATE
    SET book            = excluded.book,
        currency        = excluded.currency,
        last_updated_us = excluded.last_updated_us;`

	upsertIncomeSQL = `INSERT INTO incomes (symbol, profit, revenue, currency, last_updated_us)
    VALUES (?, ?, ?, ?, ?)
    ON CONFLICT (symbol) DO UPDATE
    SET profit          = excluded.profit,
        revenue         = excluded.revenue,
        currency        = excluded.currency,
        last_updated_us = excluded.last_updated_us;`

	screenSQL = `SELECT
        symbol,
        COALESCE(q.market_cap_usd, 0),
        COALESCE(b.book, 0),
        COALESCE(b.currency, ''),
        COALESCE(i.profit, 0),
        COALESCE(i.revenue, 0),
        COALESCE(i.currency, '')
    FROM quotes q
    FULL OUTER JOIN balance_sheets b USING (symbol)
    FULL OUTER JOIN incomes i USING (symbol)
    ORDER BY symbol;`
)

var (
	dropTableSQL = map[Kind]string{
		KindQuote:        `DROP TABLE IF EXISTS quotes;`,
		KindBalanceSheet: `DROP TABLE IF EXISTS balance_sheets;`,
		KindIncome:       `DROP TABLE IF EXISTS incomes;`,
	}

	createTableSQL = map[Kind]string{
		KindQuote:        createQuotesSQL,
		KindBalanceSheet: createBalanceSheetsSQL,
		KindIncome:       createIncomesSQL,
	}

	freshnessSQL = map[Kind]string{
		KindQuote:        `SELECT last_updated_us FROM quotes WHERE symbol = ?;`,
		KindBalanceSheet: `SELECT last_updated_us FROM balance_sheets WHERE symbol = ?;`,
		KindIncome:       `SELECT last_updated_us FROM incomes WHERE symbol = ?;`,
	}
)

// FreshnessGate decides whether a persisted row is recent enough to skip a
// network fetch.
type FreshnessGate interface {
	IsFresh(ctx context.Context, kind Kind, symbol string, cutoffMicros int64) (bool, error)
}

// FundamentalsStore persists fetched fundamentals keyed by symbol.
type FundamentalsStore interface {
	FreshnessGate
	UpsertQuote(ctx context.Context, row QuoteRow) error
	UpsertBalanceSheet(ctx context.Context, row BalanceSheetRow) error
	UpsertIncome(ctx context.Context, row IncomeRow) error
}

// EnsureSchema creates any missing fundamentals tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	for _, stmt := range []string{createQuotesSQL, createBalanceSheetsSQL, createIncomesSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Reset drops and recreates one table, discarding its rows.
func (s *Store) Reset(ctx context.Context, kind Kind) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, dropTableSQL[kind]); err != nil {
		return fmt.Errorf("drop %s table: %w", kind, err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL[kind]); err != nil {
		return fmt.Errorf("create %s table: %w", kind, err)
	}
	return nil
}

// IsFresh reports whether a row exists for symbol with a non-null update
// timestamp strictly greater than cutoffMicros. Absent rows, null
// timestamps, and older rows all read as stale.
func (s *Store) IsFresh(ctx context.Context, kind Kind, symbol string, cutoffMicros int64) (bool, error) {
	db, err := s.getDB()
	if err != nil {
		return false, err
	}

	var lastUpdated sql.NullInt64
	scanErr := db.QueryRowContext(ctx, freshnessSQL[kind], symbol).Scan(&lastUpdated)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return false, nil
	}
	if scanErr != nil {
		return false, fmt.Errorf("check freshness of %s %s: %w", kind, symbol, scanErr)
	}

	return lastUpdated.Valid && lastUpdated.Int64 > cutoffMicros, nil
}

// UpsertQuote inserts or overwrites the quote row for a symbol.
func (s *Store) UpsertQuote(ctx context.Context, row QuoteRow) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, upsertQuoteSQL, row.Symbol, row.MarketCapUSD, nullableMicros(row.LastUpdatedUS)); err != nil {
		return fmt.Errorf("upsert quote %s: %w", row.Symbol, err)
	}
	return nil
}

// UpsertBalanceSheet inserts or overwrites the balance-sheet row for a symbol.
func (s *Store) UpsertBalanceSheet(ctx context.Context, row BalanceSheetRow) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, upsertBalanceSheetSQL, row.Symbol, row.Book, row.Currency, nullableMicros(row.LastUpdatedUS)); err != nil {
		return fmt.Errorf("upsert balance sheet %s: %w", row.Symbol, err)
	}
	return nil
}

// UpsertIncome inserts or overwrites the income row for a symbol.
func (s *Store) UpsertIncome(ctx context.Context, row IncomeRow) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, upsertIncomeSQL, row.Symbol, row.Profit, row.Revenue, row.Currency, nullableMicros(row.LastUpdatedUS)); err != nil {
		return fmt.Errorf("upsert income %s: %w", row.Symbol, err)
	}
	return nil
}

// Screen reads the outer join of all three tables, one row per symbol seen
// anywhere.
func (s *Store) Screen(ctx context.Context) ([]ScreenRow, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, queryErr := db.QueryContext(ctx, screenSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("query screen: %w", queryErr)
	}
	defer rows.Close()

	var screen []ScreenRow
	for rows.Next() {
		var row ScreenRow
		if err := rows.Scan(
			&row.Symbol,
			&row.MarketCapUSD,
			&row.Book,
			&row.BalanceSheetCurrency,
			&row.Profit,
			&row.Revenue,
			&row.IncomeCurrency,
		); err != nil {
			return nil, err
		}
		screen = append(screen, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return screen, nil
}

func nullableMicros(micros *int64) any {
	if micros == nil {
		return nil
	}
	return *micros
}

var _ FundamentalsStore = (*Store)(nil)
