package relation

import (
	"context"
	"time"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RelationRepository interface {
		Create(ctx context.Context, rel *entities.UserRelation) error
		Delete(ctx context.Context, kind string, userID, targetID uuid.UUID) (int64, error)
		Exists(ctx context.Context, kind string, userID, targetID uuid.UUID) (bool, error)
		ListTargetIDs(ctx context.Context, kind string, userID uuid.UUID) ([]uuid.UUID, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// Create relies on the composite unique index on (user_id, target_id,
// kind). A duplicate insert comes back as gorm.ErrDuplicatedKey, so two
// concurrent adds for the same pair end with exactly one row.
func (r *relationRepository) Create(ctx context.Context, rel *entities.UserRelation) error {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	rel.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(rel).Error
}

func (r *relationRepository) Delete(ctx context.Context, kind string, userID, targetID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND kind = ?", userID, targetID, kind).
		Delete(&entities.UserRelation{})
	return result.RowsAffected, result.Error
}

func (r *relationRepository) Exists(ctx context.Context, kind string, userID, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.UserRelation{}).
		Where("user_id = ? AND target_id = ? AND kind = ?", userID, targetID, kind).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) ListTargetIDs(ctx context.Context, kind string, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.UserRelation{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at asc").
		Pluck("target_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
