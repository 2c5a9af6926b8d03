package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

const activityColumns = `id, title, start_time, end_time, duration_minutes, energy, tags, star_flow, notes, created_at, updated_at, synced`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY between the UI and background jobs.
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateActivity(ctx context.Context, in Activity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, mustTime(in.StartTime), mustTime(in.EndTime), in.DurationMinutes, in.Energy,
		in.Tags, boolInt(in.StarFlow), in.Notes, mustTime(in.CreatedAt), mustTime(in.UpdatedAt), boolInt(in.Synced),
	)
	return err
}

func (r *SQLiteRepository) GetActivity(ctx context.Context, id string) (Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	item, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Activity{}, ErrNotFound
		}
		return Activity{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateActivity(ctx context.Context, in Activity) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET title = ?, start_time = ?, end_time = ?, duration_minutes = ?, energy = ?, tags = ?,
		    star_flow = ?, notes = ?, updated_at = ?, synced = ?
		WHERE id = ?`,
		in.Title, mustTime(in.StartTime), mustTime(in.EndTime), in.DurationMinutes, in.Energy, in.Tags,
		boolInt(in.StarFlow), in.Notes, mustTime(in.UpdatedAt), boolInt(in.Synced), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) MarkActivitySynced(ctx context.Context, id string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE activities SET synced = 1 WHERE id = ? AND updated_at = ?`,
		id, mustTime(updatedAt),
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteActivity(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListActivities(ctx context.Context, filter ActivityListFilter) ([]Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.From != nil {
		clauses = append(clauses, "start_time >= ?")
		args = append(args, mustTime(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "start_time < ?")
		args = append(args, mustTime(*filter.To))
	}
	if filter.Unsynced {
		clauses = append(clauses, "synced = 0")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_time DESC, created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Activity, 0)
	for rows.Next() {
		item, scanErr := scanActivity(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreatePreset(ctx context.Context, in Preset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO presets (id, title, default_tags, default_energy, position)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.DefaultTags, in.DefaultEnergy, in.Position,
	)
	return err
}

func (r *SQLiteRepository) DeletePreset(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, default_tags, default_energy, position
		FROM presets ORDER BY position ASC, title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Preset, 0)
	for rows.Next() {
		var item Preset
		if err := rows.Scan(&item.ID, &item.Title, &item.DefaultTags, &item.DefaultEnergy, &item.Position); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) PutValue(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(time.Now()),
	)
	return err
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (Activity, error) {
	var out Activity
	var start, end, created, updated string
	var flow, synced int
	if err := s.Scan(&out.ID, &out.Title, &start, &end, &out.DurationMinutes, &out.Energy, &out.Tags,
		&flow, &out.Notes, &created, &updated, &synced); err != nil {
		return Activity{}, err
	}
	var err error
	if out.StartTime, err = parseRequiredTime(start); err != nil {
		return Activity{}, err
	}
	if out.EndTime, err = parseRequiredTime(end); err != nil {
		return Activity{}, err
	}
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		return Activity{}, err
	}
	if out.UpdatedAt, err = parseRequiredTime(updated); err != nil {
		return Activity{}, err
	}
	out.StarFlow = flow == 1
	out.Synced = synced == 1
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
