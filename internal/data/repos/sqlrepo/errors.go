package sqlrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/domain"
)

// mapError classifies a gorm/driver failure into a coded domain error.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *domain.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Wrap(domain.CodeDuplicateKey, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Wrap(domain.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.CodeInternal, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domain.Wrap(domain.CodeDuplicateKey, op, err) // unique_violation
		case "23502", "23514":
			return domain.Wrap(domain.CodeSchemaViolation, op, err) // not_null / check
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return domain.Wrap(domain.CodeDuplicateKey, op, err)
	case strings.Contains(msg, "not null constraint failed"), strings.Contains(msg, "check constraint failed"):
		return domain.Wrap(domain.CodeSchemaViolation, op, err)
	default:
		return domain.Wrap(domain.CodeInternal, op, err)
	}
}
