package leave

import (
	"errors"
	"strings"

	leaveerrors "go-carehome/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// The partial unique index on (caregiver, date) over PENDING rows is the
// backstop for the duplicate check under concurrent submissions; map its
// violation to the same conflict the check itself would have raised.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_pending_per_day" {
			return leaveerrors.ErrDuplicatePending
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_pending_per_day") {
		return leaveerrors.ErrDuplicatePending
	}

	return err
}
