package db

import (
	"context"

	"github.com/arvandi/otpgate/internal/otp/entity"
)

// UpdatePasscodeStatus moves a passcode from one status to another. The
// current status is part of the predicate so a concurrent transition
// loses cleanly instead of overwriting. It reports whether a row moved.
func (s *DB) UpdatePasscodeStatus(ctx context.Context, id int64, from, to entity.Status) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePasscodeStatus")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE otp_passcodes
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`

	tag, err := s.conn.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
