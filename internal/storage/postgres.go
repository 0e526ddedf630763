package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/tdv-tracker/internal/database"
	"github.com/yourusername/tdv-tracker/internal/models"
)

// PostgresStore persists the record across two tables: a key/value config
// table for the scalar fields and a sorties table for the sessions.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables if they do not exist yet. Ids are assigned
// by the application (1 + max), so the sorties primary key is a plain integer.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS config (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sorties (
			id      INTEGER PRIMARY KEY,
			date    DATE NOT NULL,
			creneau TEXT NOT NULL,
			km      NUMERIC
		);
	`
	if _, err := s.db.GetPool().Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Read assembles the record from both tables. Missing config keys fall back
// to the seed values so a partially initialized database still yields a
// renderable record.
func (s *PostgresStore) Read(ctx context.Context) (*models.SortiesData, error) {
	pool := s.db.GetPool()

	rows, err := pool.Query(ctx, `SELECT key, value FROM config`)
	if err != nil {
		return nil, fmt.Errorf("failed to query config: %w", err)
	}
	cfg := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		cfg[key] = value
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config rows: %w", err)
	}

	rows, err = pool.Query(ctx, `SELECT id, date, creneau, km FROM sorties ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sorties: %w", err)
	}
	defer rows.Close()

	var sorties []models.Sortie
	for rows.Next() {
		var (
			sortie models.Sortie
			date   time.Time
			km     *float64
		)
		if err := rows.Scan(&sortie.ID, &date, &sortie.Creneau, &km); err != nil {
			return nil, fmt.Errorf("failed to scan sortie: %w", err)
		}
		sortie.Date = date.Format(models.DateLayout)
		sortie.Km = km
		sorties = append(sorties, sortie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sortie rows: %w", err)
	}

	seed := models.DefaultData()
	data := &models.SortiesData{
		TargetKm:  seed.TargetKm,
		TdvDate:   seed.TdvDate,
		ClassName: seed.ClassName,
		Teacher:   seed.Teacher,
		Sorties:   sorties,
	}
	if v, ok := cfg["target_km"]; ok {
		if target, err := strconv.ParseFloat(v, 64); err == nil {
			data.TargetKm = target
		}
	}
	if v, ok := cfg["tdv_date"]; ok {
		data.TdvDate = v
	}
	if v, ok := cfg["class_name"]; ok {
		data.ClassName = v
	}
	if v, ok := cfg["teacher"]; ok {
		data.Teacher = v
	}

	return data, nil
}

// Write persists the full record in one transaction: config keys are
// upserted, sorties are upserted by id and rows absent from the record are
// removed.
func (s *PostgresStore) Write(ctx context.Context, data *models.SortiesData) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		upsertConfig := `
			INSERT INTO config (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`
		entries := map[string]string{
			"target_km":  strconv.FormatFloat(data.TargetKm, 'f', -1, 64),
			"tdv_date":   data.TdvDate,
			"class_name": data.ClassName,
			"teacher":    data.Teacher,
		}
		for key, value := range entries {
			if _, err := tx.Exec(ctx, upsertConfig, key, value); err != nil {
				return fmt.Errorf("failed to upsert config %s: %w", key, err)
			}
		}

		ids := make([]int, len(data.Sorties))
		for i, sortie := range data.Sorties {
			ids[i] = sortie.ID
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sorties WHERE NOT (id = ANY($1))`, ids); err != nil {
			return fmt.Errorf("failed to prune sorties: %w", err)
		}

		upsertSortie := `
			INSERT INTO sorties (id, date, creneau, km) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET date = EXCLUDED.date, creneau = EXCLUDED.creneau, km = EXCLUDED.km
		`
		for _, sortie := range data.Sorties {
			if _, err := tx.Exec(ctx, upsertSortie, sortie.ID, sortie.Date, sortie.Creneau, sortie.Km); err != nil {
				return fmt.Errorf("failed to upsert sortie %d: %w", sortie.ID, err)
			}
		}

		return nil
	})
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
