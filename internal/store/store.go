// Package store persists per-channel viewer configuration in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrNotFound is returned when a channel has no stored configuration.
var ErrNotFound = errors.New("channel not found")

// ChannelConfig is one channel's stored profile list.
type ChannelConfig struct {
	ChannelID string
	Profiles  []bnet.PlayerProfile
	UpdatedAt time.Time
}

// Store wraps the SQLite database holding channel configurations.
type Store struct {
	db          *sql.DB
	maxProfiles int
	logger      zerolog.Logger
}

// Open opens (creating if necessary) the SQLite database at path and runs
// pending migrations. maxProfiles caps the profile list accepted per
// channel.
func Open(path string, maxProfiles int, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info().Str("path", path).Msg("channel store ready")

	return &Store{
		db:          db,
		maxProfiles: maxProfiles,
		logger:      logger,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveChannel replaces the channel's profile list. Lists longer than the
// configured maximum are truncated, not rejected, so a client sending too
// many profiles still gets its leading ones stored.
func (s *Store) SaveChannel(ctx context.Context, channelID string, profiles []bnet.PlayerProfile) error {
	if channelID == "" {
		return fmt.Errorf("channel id is required")
	}
	if len(profiles) > s.maxProfiles {
		s.logger.Warn().
			Str("channel_id", channelID).
			Int("profiles", len(profiles)).
			Int("max", s.maxProfiles).
			Msg("profile list truncated")
		profiles = profiles[:s.maxProfiles]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO channels (channel_id, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (channel_id) DO UPDATE SET updated_at = excluded.updated_at`,
		channelID, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert channel: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM channel_profiles WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("clear profiles: %w", err)
	}

	for i, p := range profiles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO channel_profiles (channel_id, position, region_id, realm_id, profile_id)
			VALUES (?, ?, ?, ?, ?)`,
			channelID, i, p.RegionID, p.RealmID, p.ProfileID,
		)
		if err != nil {
			return fmt.Errorf("insert profile %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().
		Str("channel_id", channelID).
		Int("profiles", len(profiles)).
		Msg("channel configuration saved")
	return nil
}

// GetChannel returns the stored configuration for a channel, or
// ErrNotFound when the channel was never saved.
func (s *Store) GetChannel(ctx context.Context, channelID string) (*ChannelConfig, error) {
	cfg := &ChannelConfig{ChannelID: channelID}

	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM channels WHERE channel_id = ?`, channelID,
	).Scan(&cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query channel: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT region_id, realm_id, profile_id
		FROM channel_profiles
		WHERE channel_id = ?
		ORDER BY position`,
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p bnet.PlayerProfile
		if err := rows.Scan(&p.RegionID, &p.RealmID, &p.ProfileID); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		cfg.Profiles = append(cfg.Profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return cfg, nil
}
