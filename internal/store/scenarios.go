// Package store provides a SQLite-backed store for saved ROI scenarios.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smartflow-ai/smartflow/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	ErrNotFound  = errors.New("scenario not found")
	ErrAmbiguous = errors.New("scenario reference matches more than one scenario")
)

// Scenario is a named profile/plan pair. Only inputs are stored;
// projections are recomputed so catalog changes apply on read.
type Scenario struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Plan      string                `json:"plan"`
	Profile   model.BusinessProfile `json:"profile"`
	Notes     string                `json:"notes,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Store provides SQLite-backed scenario persistence.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the scenario database location under dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "scenarios.db")
}

// Open opens or creates the scenario database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScenario inserts or replaces a scenario. A missing ID or CreatedAt is
// filled in; the stored copy is returned.
func (s *Store) SaveScenario(ctx context.Context, sc Scenario) (Scenario, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return sc, errors.New("scenario name is required")
	}
	now := time.Now().UTC().Truncate(time.Second)
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now

	p := sc.Profile
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO scenarios
		(scenario_id, name, plan, business_type, monthly_revenue, average_order_value,
		 current_leads, conversion_rate, hours_per_week, hourly_rate, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Plan, p.BusinessType, p.MonthlyRevenue, p.AverageOrderValue,
		p.CurrentMonthlyLeads, p.ConversionRate, p.HoursPerWeekOnSocial, p.EmployeeHourlyRate,
		sc.Notes, sc.CreatedAt.UTC().Format(time.RFC3339), sc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return sc, fmt.Errorf("saving scenario: %w", err)
	}
	return sc, nil
}

const selectScenario = `SELECT
	scenario_id, name, plan, business_type, monthly_revenue, average_order_value,
	current_leads, conversion_rate, hours_per_week, hourly_rate, notes, created_at, updated_at
	FROM scenarios`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(r rowScanner) (Scenario, error) {
	var sc Scenario
	var notes sql.NullString
	var created, updated string
	err := r.Scan(
		&sc.ID, &sc.Name, &sc.Plan, &sc.Profile.BusinessType, &sc.Profile.MonthlyRevenue,
		&sc.Profile.AverageOrderValue, &sc.Profile.CurrentMonthlyLeads, &sc.Profile.ConversionRate,
		&sc.Profile.HoursPerWeekOnSocial, &sc.Profile.EmployeeHourlyRate, &notes, &created, &updated,
	)
	if err != nil {
		return sc, err
	}
	if notes.Valid {
		sc.Notes = notes.String
	}
	sc.CreatedAt, _ = time.Parse(time.RFC3339, created)
	sc.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return sc, nil
}

// ListScenarios returns all scenarios, newest first.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	rows, err := s.db.QueryContext(ctx, selectScenario+` ORDER BY created_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// GetScenario looks a scenario up by exact ID, unique ID prefix, or exact name.
func (s *Store) GetScenario(ctx context.Context, ref string) (Scenario, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Scenario{}, ErrNotFound
	}

	sc, err := scanScenario(s.db.QueryRowContext(ctx, selectScenario+` WHERE scenario_id = ?`, ref))
	if err == nil {
		return sc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, fmt.Errorf("loading scenario: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, selectScenario+` WHERE scenario_id LIKE ? ESCAPE '\' OR name = ? LIMIT 2`,
		escapeLike(ref)+"%", ref)
	if err != nil {
		return Scenario{}, fmt.Errorf("loading scenario: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Scenario
	for rows.Next() {
		m, err := scanScenario(rows)
		if err != nil {
			return Scenario{}, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return Scenario{}, err
	}

	switch len(matches) {
	case 0:
		return Scenario{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return Scenario{}, ErrAmbiguous
	}
}

// DeleteScenario removes a scenario by reference (see GetScenario).
func (s *Store) DeleteScenario(ctx context.Context, ref string) error {
	sc, err := s.GetScenario(ctx, ref)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE scenario_id = ?", sc.ID)
	return err
}

// Count returns the number of stored scenarios.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scenarios").Scan(&count)
	return count, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
