package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const createSessionBlobsTable = `CREATE TABLE IF NOT EXISTS session_blobs (
	key TEXT PRIMARY KEY,
	value BYTEA NOT NULL,
	expires_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`

type sessionBlob struct {
	Key       string `db:"key"`
	Value     []byte `db:"value"`
	ExpiresAt int64  `db:"expires_at"`
	UpdatedAt int64  `db:"updated_at"`
}

type PostgresBlobStore struct {
	db *sqlx.DB
}

func CreatePostgresBlobStore(ctx context.Context, db *sqlx.DB) (*PostgresBlobStore, error) {
	if _, err := db.ExecContext(ctx, createSessionBlobsTable); err != nil {
		log.Error().Err(err).Str("component", "CreatePostgresBlobStore").Msg("")
		return nil, err
	}

	return &PostgresBlobStore{db: db}, nil
}

func (r *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data sessionBlob
	err := r.db.GetContext(ctx, &data, "SELECT * FROM session_blobs WHERE key = $1 AND expires_at > $2", key, time.Now().UnixMilli())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "PostgresBlobStore.Get").Msg("")
		return nil, err
	}

	return data.Value, nil
}

func (r *PostgresBlobStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	data := sessionBlob{
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(ttl).UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}

	_, err := r.db.NamedExecContext(ctx, "INSERT INTO session_blobs(key, value, expires_at, updated_at) VALUES (:key, :value, :expires_at, :updated_at) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at", data)
	if err != nil {
		log.Error().Err(err).Str("component", "PostgresBlobStore.Set").Msg("")
		return err
	}

	return nil
}

// DeleteExpired removes blobs whose session has ended.
func (r *PostgresBlobStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM session_blobs WHERE expires_at <= $1", time.Now().UnixMilli())
	if err != nil {
		log.Error().Err(err).Str("component", "PostgresBlobStore.DeleteExpired").Msg("")
		return 0, err
	}

	return res.RowsAffected()
}
