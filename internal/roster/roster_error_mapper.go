package roster

import (
	"errors"
	"strings"

	rostererrors "go-carehome/internal/roster/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// The unique constraint on (caregiver, date, window) is the backstop for the
// overlap check under concurrent inserts; map its violation to the same
// conflict the check itself would have raised.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rostererrors.ErrRosterNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_roster_caregiver_window" {
			return rostererrors.ErrShiftOverlap
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_roster_caregiver_window") {
		return rostererrors.ErrShiftOverlap
	}

	return err
}
