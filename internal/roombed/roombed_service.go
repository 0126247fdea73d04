package roombed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-carehome/internal/audit"
	roombederrors "go-carehome/internal/roombed/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const availableCacheTTL = 30 * time.Second

// AvailableCacheKey is the redis key holding the available-beds listing for a
// location. Exported so packages that change occupancy indirectly can
// invalidate it without importing the service.
func AvailableCacheKey(locationID string) string {
	return "room_beds:available:" + locationID
}

//go:generate mockgen -source=roombed_service.go -destination=mock/roombed_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateRoomBedRequest) (RoomBedResponse, error)
	GetByLocation(ctx context.Context, locationID string) ([]RoomBedResponse, error)
	GetAvailable(ctx context.Context, locationID string) ([]RoomBedResponse, error)
	Assign(ctx context.Context, actorID string, req AssignRequest) (AssignmentResponse, error)
	Unassign(ctx context.Context, actorID, careReceiverID string) (AssignmentResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	cache   redis.Cmdable
	group   singleflight.Group
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, cache redis.Cmdable, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("roombed.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roombed.service")
	}
	return &service{db: db, repo: repo, cache: cache, auditor: auditor, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRoomBedRequest) (RoomBedResponse, error) {
	if !strings.HasPrefix(req.BedNumber, req.RoomNumber+"-") {
		return RoomBedResponse{}, roombederrors.ErrInvalidBedNumber
	}

	exists, err := s.repo.LocationExists(ctx, req.LocationID)
	if err != nil {
		return RoomBedResponse{}, err
	}
	if !exists {
		return RoomBedResponse{}, roombederrors.ErrLocationNotFound
	}

	taken, err := s.repo.CombinationExists(ctx, req.LocationID, req.RoomNumber, req.BedNumber)
	if err != nil {
		return RoomBedResponse{}, err
	}
	if taken {
		return RoomBedResponse{}, roombederrors.ErrCombinationExists
	}

	b := &RoomBed{
		ID:         uuid.New(),
		LocationID: uuid.MustParse(req.LocationID),
		RoomNumber: req.RoomNumber,
		BedNumber:  req.BedNumber,
		Floor:      req.Floor,
		Wing:       req.Wing,
		Features:   datatypes.JSONMap(req.Features),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("create room bed persist failed", zap.Error(err))
		return RoomBedResponse{}, mapRepositoryError(err)
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROOM_BED_CREATE",
		EntityType: "ROOM_BED",
		EntityID:   b.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation":   "CREATE",
			"location_id": req.LocationID,
			"room_number": req.RoomNumber,
			"bed_number":  req.BedNumber,
		},
	})
	s.invalidateAvailable(ctx, req.LocationID)
	s.logger.Info("room bed created",
		zap.String("room_bed_id", b.ID.String()),
		zap.String("location_id", req.LocationID),
	)

	return mapToResponse(*b), nil
}

func (s *service) GetByLocation(ctx context.Context, locationID string) ([]RoomBedResponse, error) {
	if _, err := uuid.Parse(locationID); err != nil {
		return nil, roombederrors.ErrLocationNotFound
	}
	beds, err := s.repo.FindAllByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(beds), nil
}

func (s *service) GetAvailable(ctx context.Context, locationID string) ([]RoomBedResponse, error) {
	if _, err := uuid.Parse(locationID); err != nil {
		return nil, roombederrors.ErrLocationNotFound
	}

	key := AvailableCacheKey(locationID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached []RoomBedResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				s.logger.Debug("available beds cache hit", zap.String("location_id", locationID))
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("available beds cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		beds, err := s.repo.FindAvailableByLocation(ctx, locationID)
		if err != nil {
			return nil, err
		}
		resp := mapToResponses(beds)
		if s.cache != nil {
			if raw, err := json.Marshal(resp); err == nil {
				if err := s.cache.Set(ctx, key, raw, availableCacheTTL).Err(); err != nil {
					s.logger.Warn("available beds cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]RoomBedResponse), nil
}

// Assign moves a care receiver onto a bed. The occupant row and both bed rows
// are locked inside one transaction so the one-occupant-per-bed invariant
// holds under concurrent requests.
func (s *service) Assign(ctx context.Context, actorID string, req AssignRequest) (AssignmentResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("assign begin tx failed", zap.Error(tx.Error))
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	occupant, err := qtx.FindOccupantForUpdate(ctx, req.CareReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, roombederrors.ErrCareReceiverNotFound
		}
		return AssignmentResponse{}, err
	}

	bed, err := qtx.FindByIDForUpdate(ctx, req.RoomBedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, roombederrors.ErrRoomBedNotFound
		}
		return AssignmentResponse{}, err
	}

	if occupant.CurrentRoomBedID != nil && *occupant.CurrentRoomBedID == bed.ID {
		if err := tx.Commit().Error; err != nil {
			return AssignmentResponse{}, err
		}
		s.auditor.Record(ctx, audit.Entry{
			Action:     "ROOM_BED_ASSIGN",
			EntityType: "ROOM_BED",
			EntityID:   bed.ID.String(),
			UserID:     actorID,
			Changes: map[string]any{
				"operation":        "ASSIGN",
				"care_receiver_id": req.CareReceiverID,
				"unchanged":        true,
			},
		})
		s.logger.Info("assign is a no-op, care receiver already on bed",
			zap.String("care_receiver_id", req.CareReceiverID),
			zap.String("room_bed_id", req.RoomBedID),
		)
		return AssignmentResponse{
			Message: "care receiver already assigned to this bed",
			RoomBed: mapToResponse(*bed),
		}, nil
	}

	if bed.LocationID != occupant.LocationID {
		return AssignmentResponse{}, roombederrors.ErrLocationMismatch
	}
	if bed.IsOccupied {
		return AssignmentResponse{}, roombederrors.ErrBedOccupied
	}

	var previousBedID *uuid.UUID
	if occupant.CurrentRoomBedID != nil {
		previous, err := qtx.FindByIDForUpdate(ctx, occupant.CurrentRoomBedID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, err
		}
		if err == nil {
			if err := qtx.SetOccupied(ctx, previous.ID, false); err != nil {
				return AssignmentResponse{}, err
			}
			previousBedID = &previous.ID
		}
	}

	if err := qtx.SetOccupied(ctx, bed.ID, true); err != nil {
		return AssignmentResponse{}, err
	}
	if err := qtx.SetOccupantBed(ctx, occupant.ID, &bed.ID); err != nil {
		return AssignmentResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("assign commit failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	changes := map[string]any{
		"operation":        "ASSIGN",
		"care_receiver_id": req.CareReceiverID,
		"room_bed_id":      bed.ID.String(),
	}
	if previousBedID != nil {
		changes["previous_room_bed_id"] = previousBedID.String()
	}
	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROOM_BED_ASSIGN",
		EntityType: "ROOM_BED",
		EntityID:   bed.ID.String(),
		UserID:     actorID,
		Changes:    changes,
	})
	s.invalidateAvailable(ctx, bed.LocationID.String())
	s.logger.Info("care receiver assigned",
		zap.String("care_receiver_id", req.CareReceiverID),
		zap.String("room_bed_id", bed.ID.String()),
	)

	bed.IsOccupied = true
	return AssignmentResponse{
		Message: fmt.Sprintf("care receiver assigned to bed %s", bed.BedNumber),
		RoomBed: mapToResponse(*bed),
	}, nil
}

func (s *service) Unassign(ctx context.Context, actorID, careReceiverID string) (AssignmentResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	occupant, err := qtx.FindOccupantForUpdate(ctx, careReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, roombederrors.ErrCareReceiverNotFound
		}
		return AssignmentResponse{}, err
	}
	if occupant.CurrentRoomBedID == nil {
		return AssignmentResponse{}, roombederrors.ErrNoCurrentBed
	}

	bed, err := qtx.FindByIDForUpdate(ctx, occupant.CurrentRoomBedID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, roombederrors.ErrRoomBedNotFound
		}
		return AssignmentResponse{}, err
	}

	if err := qtx.SetOccupied(ctx, bed.ID, false); err != nil {
		return AssignmentResponse{}, err
	}
	if err := qtx.SetOccupantBed(ctx, occupant.ID, nil); err != nil {
		return AssignmentResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("unassign commit failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "ROOM_BED_UNASSIGN",
		EntityType: "ROOM_BED",
		EntityID:   bed.ID.String(),
		UserID:     actorID,
		Changes: map[string]any{
			"operation":        "UNASSIGN",
			"care_receiver_id": careReceiverID,
			"room_bed_id":      bed.ID.String(),
		},
	})
	s.invalidateAvailable(ctx, bed.LocationID.String())
	s.logger.Info("care receiver unassigned",
		zap.String("care_receiver_id", careReceiverID),
		zap.String("room_bed_id", bed.ID.String()),
	)

	bed.IsOccupied = false
	return AssignmentResponse{
		Message: fmt.Sprintf("care receiver removed from bed %s", bed.BedNumber),
		RoomBed: mapToResponse(*bed),
	}, nil
}

func (s *service) invalidateAvailable(ctx context.Context, locationID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, AvailableCacheKey(locationID)).Err(); err != nil {
		s.logger.Warn("available beds cache invalidation failed",
			zap.String("location_id", locationID),
			zap.Error(err),
		)
	}
}

func mapToResponse(b RoomBed) RoomBedResponse {
	return RoomBedResponse{
		ID:         b.ID.String(),
		LocationID: b.LocationID.String(),
		RoomNumber: b.RoomNumber,
		BedNumber:  b.BedNumber,
		IsOccupied: b.IsOccupied,
		Floor:      b.Floor,
		Wing:       b.Wing,
		Features:   map[string]any(b.Features),
	}
}

func mapToResponses(beds []RoomBed) []RoomBedResponse {
	resp := make([]RoomBedResponse, len(beds))
	for i, b := range beds {
		resp[i] = mapToResponse(b)
	}
	return resp
}
