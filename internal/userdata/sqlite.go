package userdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewSQLiteStore opens the database at dbPath and creates the overlay tables.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Serialize writers; SQLite allows only one at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create tables: %w", err), closeErr)
	}

	return &SQLiteStore{db: db, dbPath: dbPath, now: time.Now}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Scene returns the overlay for a scene, or the zero value if none is stored.
func (s *SQLiteStore) Scene(ctx context.Context, id string) (SceneData, error) {
	var (
		data   SceneData
		rating sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT rating100, organized, o_counter FROM scene_data WHERE id = ?`, id,
	).Scan(&rating, &data.Organized, &data.OCounter)
	if errors.Is(err, sql.ErrNoRows) {
		return SceneData{}, nil
	}
	if err != nil {
		return SceneData{}, fmt.Errorf("failed to query scene data: %w", err)
	}
	data.Rating100 = intPtr(rating)
	return data, nil
}

// UpdateScene applies a partial update and returns the stored result.
func (s *SQLiteStore) UpdateScene(ctx context.Context, id string, update SceneUpdate) (SceneData, error) {
	if err := validateRating(update.Rating100); err != nil {
		return SceneData{}, err
	}
	if update.OCounter != nil && *update.OCounter < 0 {
		return SceneData{}, fmt.Errorf("o_counter must not be negative, got %d", *update.OCounter)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scene_data (id, rating100, organized, o_counter, updated_at)
		VALUES (?1, ?2, COALESCE(?3, FALSE), COALESCE(?4, 0), ?5)
		ON CONFLICT(id) DO UPDATE SET
			rating100 = COALESCE(?2, rating100),
			organized = COALESCE(?3, organized),
			o_counter = COALESCE(?4, o_counter),
			updated_at = ?5
	`, id, nullable(update.Rating100), nullable(update.Organized), nullable(update.OCounter), s.now().UnixMilli())
	if err != nil {
		return SceneData{}, fmt.Errorf("failed to update scene data: %w", err)
	}

	return s.Scene(ctx, id)
}

// Performer returns the overlay for a performer, or the zero value if none is stored.
func (s *SQLiteStore) Performer(ctx context.Context, id string) (PerformerData, error) {
	var (
		data   PerformerData
		rating sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT favorite, rating100 FROM performer_data WHERE id = ?`, id,
	).Scan(&data.Favorite, &rating)
	if errors.Is(err, sql.ErrNoRows) {
		return PerformerData{}, nil
	}
	if err != nil {
		return PerformerData{}, fmt.Errorf("failed to query performer data: %w", err)
	}
	data.Rating100 = intPtr(rating)
	return data, nil
}

// UpdatePerformer applies a partial update and returns the stored result.
func (s *SQLiteStore) UpdatePerformer(ctx context.Context, id string, update PerformerUpdate) (PerformerData, error) {
	if err := validateRating(update.Rating100); err != nil {
		return PerformerData{}, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO performer_data (id, favorite, rating100, updated_at)
		VALUES (?1, COALESCE(?2, FALSE), ?3, ?4)
		ON CONFLICT(id) DO UPDATE SET
			favorite = COALESCE(?2, favorite),
			rating100 = COALESCE(?3, rating100),
			updated_at = ?4
	`, id, nullable(update.Favorite), nullable(update.Rating100), s.now().UnixMilli())
	if err != nil {
		return PerformerData{}, fmt.Errorf("failed to update performer data: %w", err)
	}

	return s.Performer(ctx, id)
}

// FavoritePerformers returns the ids of every favorite performer.
func (s *SQLiteStore) FavoritePerformers(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM performer_data WHERE favorite`)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	favorites := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	return favorites, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
