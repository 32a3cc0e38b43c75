package authgate

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type revocations struct {
	db *bun.DB
}

// NewRevocationsStore creates the bun backed CredentialStore. Idempotency
// and per key atomicity come from the jti primary key: concurrent revokes
// of the same credential collapse into a single row.
func NewRevocationsStore(db *bun.DB) CredentialStore {
	return &revocations{db: db}
}

var _ CredentialStore = (*revocations)(nil)

func (r *revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.db.NewSelect().
		Model((*RevocationEntry)(nil)).
		Where("?TableAlias.jti = ?", jti).
		Exists(ctx)
}

func (r *revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	entry := &RevocationEntry{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}

	_, err := r.db.NewInsert().
		Model(entry).
		On("CONFLICT (jti) DO NOTHING").
		Exec(ctx)

	return err
}

// SweepExpired removes strictly expired rows; a row expiring exactly at
// now survives the sweep.
func (r *revocations) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.NewDelete().
		Model((*RevocationEntry)(nil)).
		Where("?TableAlias.expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}
