package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/leoclub/leofest-api/internal/store"
)

const uniqueViolation = "23505"

// isNotFound reports whether err is the raw no-rows sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// translate maps driver-level failures onto the store sentinels so services
// never see lib/pq details. Connection-level failures become ErrUnavailable;
// the engine surfaces those without retrying.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w", op, store.ErrUnavailable)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w", op, store.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
