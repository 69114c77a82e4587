package db

import (
	"context"

	"github.com/arvandi/otpgate/internal/otp/entity"
)

func (s *DB) GetUserContactInfo(ctx context.Context, id int64) (_ *entity.UserContactInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserContactInfo")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, email, phone_number, full_name, otp_secret
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var result entity.UserContactInfo
	err = s.conn.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Email,
		&result.PhoneNumber,
		&result.FullName,
		&result.EncryptedSecret,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &result, nil
}

func (s *DB) GetActivePasscode(ctx context.Context, userID int64, m entity.Method, p entity.Purpose) (_ *entity.Passcode, err error) {
	ctx, span := s.startSpan(ctx, "GetActivePasscode")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, user_id, counter, expires_at, method, purpose, status, metadata
		FROM otp_passcodes
		WHERE user_id = $1 AND method = $2 AND purpose = $3 AND status = $4`

	var (
		result  entity.Passcode
		counter int64
	)
	err = s.conn.QueryRow(ctx, query, userID, m, p, entity.StatusActive).Scan(
		&result.ID,
		&result.UserID,
		&counter,
		&result.ExpiresAt,
		&result.Method,
		&result.Purpose,
		&result.Status,
		&result.Metadata,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	result.Counter = uint64(counter)
	return &result, nil
}
