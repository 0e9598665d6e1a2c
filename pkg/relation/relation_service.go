package relation

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RelationService is the idempotent add/remove over a (user, target)
	// pair, parameterized by kind. Add twice yields ErrAlreadyAdded the
	// second time; Remove twice yields ErrAlreadyRemoved.
	RelationService interface {
		Add(ctx context.Context, kind string, userID, targetID string) error
		Remove(ctx context.Context, kind string, userID, targetID string) error
		Exists(ctx context.Context, kind string, userID, targetID string) (bool, error)
		TargetIDs(ctx context.Context, kind string, userID string) ([]uuid.UUID, error)
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

func (s *relationService) Add(ctx context.Context, kind string, userID, targetID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return domain.ErrParseUUID
	}

	if kind == domain.KindFollow && userUUID == targetUUID {
		return domain.ErrSelfFollow
	}

	rel := entities.UserRelation{
		UserID:   userUUID,
		TargetID: targetUUID,
		Kind:     kind,
	}
	if err := s.relationRepository.Create(ctx, &rel); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyAdded
		}
		return err
	}
	return nil
}

func (s *relationService) Remove(ctx context.Context, kind string, userID, targetID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return domain.ErrParseUUID
	}

	affected, err := s.relationRepository.Delete(ctx, kind, userUUID, targetUUID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyRemoved
	}
	return nil
}

func (s *relationService) Exists(ctx context.Context, kind string, userID, targetID string) (bool, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return false, domain.ErrParseUUID
	}
	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return false, domain.ErrParseUUID
	}
	return s.relationRepository.Exists(ctx, kind, userUUID, targetUUID)
}

func (s *relationService) TargetIDs(ctx context.Context, kind string, userID string) ([]uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.relationRepository.ListTargetIDs(ctx, kind, userUUID)
}
