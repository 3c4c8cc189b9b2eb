package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
	"github.com/takayamaekawa/discord-exporter-tui/internal/database"
)

// ChannelRepo caches fetched channel metadata so repeated runs can skip the
// catalog scan.
type ChannelRepo struct {
	db *sql.DB
}

func NewChannelRepo(db *sql.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// ReplaceAll swaps the cached catalog for a fresh snapshot in one
// transaction. Position preserves the fetch order so List returns channels
// the way the API presented them.
func (r *ChannelRepo) ReplaceAll(ctx context.Context, channels []catalog.Channel, fetchedAt time.Time) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM channels`); err != nil {
			return err
		}
		for i, c := range channels {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO channels(id, guild_id, guild_name, name, category, position, estimated_messages, created_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
			 guild_id=excluded.guild_id,
			 guild_name=excluded.guild_name,
			 name=excluded.name,
			 category=excluded.category,
			 position=excluded.position,
			 estimated_messages=excluded.estimated_messages,
			 created_at=excluded.created_at,
			 fetched_at=excluded.fetched_at;
			`, c.ID, c.GuildID, c.GuildName, c.Name, c.Category, i, c.EstimatedMessages, c.CreatedAt, fetchedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the cached catalog in fetch order.
func (r *ChannelRepo) List(ctx context.Context) ([]catalog.Channel, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, guild_id, guild_name, name, category, estimated_messages, created_at
	FROM channels ORDER BY guild_id, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Channel
	for rows.Next() {
		var c catalog.Channel
		var category sql.NullString
		if err := rows.Scan(&c.ID, &c.GuildID, &c.GuildName, &c.Name, &category, &c.EstimatedMessages, &c.CreatedAt); err != nil {
			return nil, err
		}
		if category.Valid {
			c.Category = &category.String
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LastFetched reports when the cache was last refreshed. Zero time means the
// cache is empty.
func (r *ChannelRepo) LastFetched(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := r.db.QueryRowContext(ctx, `SELECT fetched_at FROM channels ORDER BY fetched_at DESC LIMIT 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
