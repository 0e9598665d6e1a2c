package shortlink

import (
	"context"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShortLinkRepository interface {
		GetByRecipeID(ctx context.Context, recipeID uuid.UUID) (*entities.ShortLink, error)
		GetByCode(ctx context.Context, code string) (*entities.ShortLink, error)
		Create(ctx context.Context, link *entities.ShortLink) error
	}

	shortLinkRepository struct {
		db *gorm.DB
	}
)

func NewShortLinkRepository(db *gorm.DB) ShortLinkRepository {
	return &shortLinkRepository{db: db}
}

func (r *shortLinkRepository) GetByRecipeID(ctx context.Context, recipeID uuid.UUID) (*entities.ShortLink, error) {
	var link entities.ShortLink
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *shortLinkRepository) GetByCode(ctx context.Context, code string) (*entities.ShortLink, error) {
	var link entities.ShortLink
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *shortLinkRepository) Create(ctx context.Context, link *entities.ShortLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}
