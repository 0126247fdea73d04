package caregiver

import (
	"errors"
	"strings"

	caregivererrors "go-carehome/internal/caregiver/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return caregivererrors.ErrCaregiverNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_caregiver_email" {
			return caregivererrors.ErrEmailAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_caregiver_email") {
		return caregivererrors.ErrEmailAlreadyExists
	}

	return err
}
