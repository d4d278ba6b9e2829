package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-service/internal/auth"
)

// PostgresRevocationStore persists revoked credentials in the revoked_tokens table.
// Only the SHA-256 of the credential is stored.
type PostgresRevocationStore struct {
	db querier
}

// NewPostgresRevocationStore constructs the store.
func NewPostgresRevocationStore(pool *pgxpool.Pool) *PostgresRevocationStore {
	return &PostgresRevocationStore{db: pool}
}

func (s *PostgresRevocationStore) Record(ctx context.Context, raw, subjectID string, expiresAt time.Time) error {
	const query = `
        INSERT INTO revoked_tokens (token_hash, subject_id, expires_at)
        VALUES ($1,$2,$3)
        ON CONFLICT (token_hash) DO NOTHING`
	_, err := conn(ctx, s.db).Exec(ctx, query, auth.HashCredential(raw), subjectID, expiresAt)
	return err
}

func (s *PostgresRevocationStore) Contains(ctx context.Context, raw string) (bool, error) {
	var exists bool
	err := conn(ctx, s.db).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash=$1)`,
		auth.HashCredential(raw),
	).Scan(&exists)
	return exists, err
}

// DeleteExpired removes records whose credential expired before the cutoff.
func (s *PostgresRevocationStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := conn(ctx, s.db).Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var (
	_ auth.RevocationStore  = (*PostgresRevocationStore)(nil)
	_ auth.RevocationPruner = (*PostgresRevocationStore)(nil)
)
