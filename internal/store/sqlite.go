package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
	"options-lab/internal/options"
	"options-lab/internal/security"
)

// SQLiteStore implements ScenarioStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	validator *security.InputValidator
	now       func() time.Time
}

// NewSQLiteStore creates a new SQLite-based scenario store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		validator: security.NewInputValidator(false),
		now:       func() time.Time { return time.Now().UTC() },
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		notes TEXT,
		strike_price REAL NOT NULL,
		current_price REAL NOT NULL,
		premium REAL NOT NULL,
		days_to_expiry REAL NOT NULL,
		implied_volatility REAL NOT NULL,
		interest_rate REAL NOT NULL,
		dividend_yield REAL NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_updated ON scenarios(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
	}
	return nil
}

// SaveScenario validates and upserts a scenario.
func (s *SQLiteStore) SaveScenario(ctx context.Context, scenario *models.Scenario) error {
	if scenario == nil {
		return apperrors.NewInputError("scenario", nil, "scenario is required")
	}

	scenario.Name = strings.TrimSpace(scenario.Name)
	scenario.Notes = security.SanitizeText(scenario.Notes)
	if err := s.validator.ValidateScenarioName(scenario.Name); err != nil {
		return err
	}
	if err := s.validator.ValidateText("notes", scenario.Notes, security.MaxScenarioNotesLen); err != nil {
		return err
	}
	if err := options.ValidateParameters(scenario.Params); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if scenario.ID == "" {
		scenario.ID = uuid.NewString()
	}
	if scenario.CreatedAt.IsZero() {
		scenario.CreatedAt = now
	}
	scenario.UpdatedAt = now

	p := scenario.Params
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, notes, strike_price, current_price, premium, days_to_expiry,
			implied_volatility, interest_rate, dividend_yield, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			notes = excluded.notes,
			strike_price = excluded.strike_price,
			current_price = excluded.current_price,
			premium = excluded.premium,
			days_to_expiry = excluded.days_to_expiry,
			implied_volatility = excluded.implied_volatility,
			interest_rate = excluded.interest_rate,
			dividend_yield = excluded.dividend_yield,
			updated_at = excluded.updated_at
	`, scenario.ID, scenario.Name, scenario.Notes, p.StrikePrice, p.CurrentPrice, p.Premium, p.DaysToExpiry,
		p.ImpliedVolatility, p.InterestRate, p.DividendYield, scenario.CreatedAt, scenario.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrapf(apperrors.ErrScenarioExists, "%q", scenario.Name)
		}
		return apperrors.NewDataError("scenario", scenario.ID, "failed to save scenario", fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err))
	}
	return nil
}

const scenarioColumns = `id, name, COALESCE(notes, ''), strike_price, current_price, premium, days_to_expiry,
	implied_volatility, interest_rate, dividend_yield, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(row rowScanner) (*models.Scenario, error) {
	var sc models.Scenario
	p := &sc.Params
	err := row.Scan(&sc.ID, &sc.Name, &sc.Notes, &p.StrikePrice, &p.CurrentPrice, &p.Premium, &p.DaysToExpiry,
		&p.ImpliedVolatility, &p.InterestRate, &p.DividendYield, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// GetScenario retrieves a scenario by id.
func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (*models.Scenario, error) {
	return s.getOne(ctx, "id", id)
}

// GetScenarioByName retrieves a scenario by its unique name.
func (s *SQLiteStore) GetScenarioByName(ctx context.Context, name string) (*models.Scenario, error) {
	return s.getOne(ctx, "name", strings.TrimSpace(name))
}

func (s *SQLiteStore) getOne(ctx context.Context, column, value string) (*models.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE `+column+` = ?`, value)
	sc, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrapf(apperrors.ErrScenarioNotFound, "%s %q", column, value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return sc, nil
}

// ListScenarios returns scenarios, most recently updated first.
func (s *SQLiteStore) ListScenarios(ctx context.Context, filter ScenarioFilter) ([]models.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE 1=1`
	var args []interface{}

	if filter.NameContains != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.NameContains+"%")
	}

	query += ` ORDER BY updated_at DESC, name ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := []models.Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, *sc)
	}

	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario by id.
func (s *SQLiteStore) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if n == 0 {
		return apperrors.Wrapf(apperrors.ErrScenarioNotFound, "id %q", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if apperrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
