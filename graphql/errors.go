package graphql

import (
	"errors"

	"rentals-api/domain"
)

// resolverError carries a machine-readable code in the GraphQL error's
// extensions.
type resolverError struct {
	err   error
	code  string
	field string
}

func (e *resolverError) Error() string { return e.err.Error() }

func (e *resolverError) Unwrap() error { return e.err }

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if e.field != "" {
		ext["field"] = e.field
	}
	return ext
}

func wrapError(err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return &resolverError{err: err, code: "VALIDATION_ERROR", field: ve.Field}
	case errors.Is(err, domain.ErrNotFound):
		return &resolverError{err: err, code: "NOT_FOUND"}
	case errors.Is(err, domain.ErrForbidden):
		return &resolverError{err: err, code: "FORBIDDEN"}
	default:
		return &resolverError{err: errors.New("internal server error"), code: "INTERNAL"}
	}
}
