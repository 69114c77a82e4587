package db

import (
	"context"

	"github.com/arvandi/otpgate/internal/otp/entity"
)

func (s *DB) CreatePasscode(ctx context.Context, data entity.NewPasscode) (err error) {
	ctx, span := s.startSpan(ctx, "CreatePasscode")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO otp_passcodes (id, user_id, counter, expires_at, method, purpose, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.conn.Exec(ctx, query,
		data.ID,
		data.UserID,
		int64(data.Counter),
		data.ExpiresAt,
		data.Method,
		data.Purpose,
		entity.StatusActive,
		data.Metadata,
	)

	return s.mapError(err)
}
