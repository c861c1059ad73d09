package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wallpaper-planner/internal/catalog/models"
	"wallpaper-planner/internal/common/logging"
	planner "wallpaper-planner/internal/planner/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no swatch has the requested ID.
var ErrNotFound = errors.New("swatch not found")

// ============================================================
// SQLite Repository
// ============================================================

// Repository is the SQLite-backed swatch catalog.
type Repository struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the migration and seeds an empty catalog from seedPath.
// An empty seedPath or a missing seed file leaves the catalog empty.
func (r *Repository) Init(ctx context.Context, migrationsPath, seedPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if seedPath == "" {
		return nil
	}
	return r.seed(ctx, seedPath)
}

const swatchColumns = `id, name, type, width_cm, length_m, roll_width_cm, total_rolls, design_height_cm, created_at`

// List returns every swatch ordered by type and name.
func (r *Repository) List(ctx context.Context) ([]models.Swatch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+swatchColumns+` FROM swatches ORDER BY type, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	swatches := []models.Swatch{}
	for rows.Next() {
		s, err := scanSwatch(rows)
		if err != nil {
			return nil, err
		}
		swatches = append(swatches, *s)
	}
	return swatches, rows.Err()
}

// GetByID returns one swatch or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Swatch, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+swatchColumns+` FROM swatches WHERE id = ?`, id)

	s, err := scanSwatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Upsert validates and stores the swatch, assigning an ID when empty.
func (r *Repository) Upsert(ctx context.Context, s models.Swatch) (*models.Swatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO swatches (id, name, type, width_cm, length_m, roll_width_cm, total_rolls, design_height_cm)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            type = excluded.type,
            width_cm = excluded.width_cm,
            length_m = excluded.length_m,
            roll_width_cm = excluded.roll_width_cm,
            total_rolls = excluded.total_rolls,
            design_height_cm = excluded.design_height_cm
    `, s.ID, s.Name, string(s.Type), s.WidthCm, s.LengthM, s.RollWidthCm, s.TotalRolls, s.DesignHeightCm)
	if err != nil {
		return nil, fmt.Errorf("upsert swatch %s: %w", s.ID, err)
	}
	return r.GetByID(ctx, s.ID)
}

// Count returns the number of stored swatches.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swatches`).Scan(&n)
	return n, err
}

// Ping checks that the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSwatch(row scanner) (*models.Swatch, error) {
	var s models.Swatch
	var typ string
	if err := row.Scan(&s.ID, &s.Name, &typ, &s.WidthCm, &s.LengthM, &s.RollWidthCm, &s.TotalRolls, &s.DesignHeightCm, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Type = planner.SwatchType(typ)
	return &s, nil
}

// ============================================================
// Migrations & Seeding
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

type seedFile struct {
	Swatches []models.Swatch `yaml:"swatches"`
}

func (r *Repository) seed(ctx context.Context, seedPath string) error {
	log := logging.Named("catalog")

	n, err := r.Count(ctx)
	if err != nil {
		return fmt.Errorf("count swatches: %w", err)
	}
	if n > 0 {
		return nil
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("seed file missing, catalog left empty", zap.String("path", seedPath))
			return nil
		}
		return fmt.Errorf("read seed: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	for _, s := range file.Swatches {
		if _, err := r.Upsert(ctx, s); err != nil {
			return fmt.Errorf("seed swatch %q: %w", s.Name, err)
		}
	}
	log.Info("catalog seeded", zap.Int("swatches", len(file.Swatches)))
	return nil
}

// OpenSQLite opens (and creates when needed) the database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
