// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/campaign/migrations"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	timeFormat     = time.RFC3339Nano
	migrationTable = "schema_migrations"
)

// SQLiteStore keeps campaign state in a local SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLiteStore opens a SQLite store at the provided path and applies the
// embedded schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logrus.Infof("opened campaign store at %s", cleanPath)
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetCampaignState loads a player's campaign. Returns ErrNoCampaignState
// when no row exists.
func (s *SQLiteStore) GetCampaignState(ctx context.Context, playerID string) (*State, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT state FROM campaign_state WHERE player_id = ?", playerID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCampaignState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign state: %w", err)
	}
	return &state, nil
}

// UpdateCampaignState upserts a player's campaign.
func (s *SQLiteStore) UpdateCampaignState(ctx context.Context, playerID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign state: %w", err)
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO campaign_state (player_id, state, games_won, super_bowl_won, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET
    state = excluded.state,
    games_won = excluded.games_won,
    super_bowl_won = excluded.super_bowl_won,
    updated_at = excluded.updated_at`,
		playerID, string(data), state.GamesWon, state.SuperBowlWon, updatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign state: %w", err)
	}
	return nil
}

// DeleteCampaignState removes a player's campaign.
func (s *SQLiteStore) DeleteCampaignState(ctx context.Context, playerID string) error {
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM campaign_state WHERE player_id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete campaign state: %w", err)
	}
	return nil
}

// Ping checks the database.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// applyMigrations executes each embedded migration at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`, migrationTable)
	if _, err := sqlDB.Exec(createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := sqlDB.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE name = ?", file).Scan(&found)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upMigration(string(content))); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
		logrus.Debugf("applied migration %s", file)
	}
	return nil
}

// upMigration returns the SQL between the Up and Down markers.
func upMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	start := strings.Index(content, up)
	if start == -1 {
		return content
	}
	content = content[start+len(up):]
	if end := strings.Index(content, down); end != -1 {
		content = content[:end]
	}
	return content
}
