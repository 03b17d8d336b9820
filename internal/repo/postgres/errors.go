package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bokk3/dating-app/internal/domain/errs"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var ErrPoolUnavailable = fmt.Errorf("postgres pool is not configured: %w", errs.ErrTransient)

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, classify(err))
}

// classify tags store errors with the engine error kinds they represent.
// Caller cancellation is returned untouched.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", errs.ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeForeignKeyViolation:
			return fmt.Errorf("%w: %w", errs.ErrInvalidSubject, err)
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %w", errs.ErrConflict, err)
		case isTransientCode(pgErr.Code):
			return fmt.Errorf("%w: %w", errs.ErrTransient, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", errs.ErrTransient, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", errs.ErrTransient, err)
	}

	return err
}

func isTransientCode(code string) bool {
	switch code {
	case "40001", "40P01", "53300", "57P01", "57P02", "57P03":
		return true
	}
	// class 08: connection exception
	return strings.HasPrefix(code, "08")
}
