package infra

import (
	"errors"
	"log/slog"

	"cart-engine/internal/pkg/errs"
)

type RepositoryErrorKind string

// RepositoryError tags a storage or upstream failure with a coarse kind the
// usecase layer can branch on.
type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	slogger.Error("Repository error: "+msg, logArgs...)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound        RepositoryErrorKind = "NOT_FOUND"
	KindStorageFailure  RepositoryErrorKind = "STORAGE_FAILURE"
	KindDBFailure       RepositoryErrorKind = "DB_FAILURE"
	KindUpstreamFailure RepositoryErrorKind = "UPSTREAM_FAILURE"
	KindUnauthorized    RepositoryErrorKind = "UNAUTHORIZED"
	KindMalformed       RepositoryErrorKind = "MALFORMED_RESPONSE"
)
