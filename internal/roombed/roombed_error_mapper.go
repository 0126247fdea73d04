package roombed

import (
	"errors"
	"strings"

	roombederrors "go-carehome/internal/roombed/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return roombederrors.ErrRoomBedNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_room_bed_combination" {
			return roombederrors.ErrCombinationExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_room_bed_combination") {
		return roombederrors.ErrCombinationExists
	}

	return err
}
