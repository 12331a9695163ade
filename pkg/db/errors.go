package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
)

// classifyError maps driver constraint failures onto
// common.ErrConstraintViolation and leaves everything else untouched.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, common.ErrConstraintViolation) || errors.Is(err, common.ErrStorageUnavailable) {
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", common.ErrConstraintViolation, err)
	}

	// SQLSTATE class 23: integrity constraint violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %w", common.ErrConstraintViolation, err)
	}

	return err
}
