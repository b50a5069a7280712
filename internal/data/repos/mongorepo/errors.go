package mongorepo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/domain"
)

const (
	codeNamespaceExists      = 48
	codeIndexOptionsConflict = 85
	codeIndexKeySpecConflict = 86
	codeDocumentValidation   = 121
)

func hasCode(err error, code int) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(code)
}

// mapError classifies a driver failure into a coded domain error.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *domain.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case hasCode(err, codeDocumentValidation):
		return domain.Wrap(domain.CodeSchemaViolation, op, err)
	case mongo.IsDuplicateKeyError(err):
		return domain.Wrap(domain.CodeDuplicateKey, op, err)
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.Wrap(domain.CodeNotFound, op, err)
	default:
		return domain.Wrap(domain.CodeInternal, op, err)
	}
}
