package shortlink

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// codeLength is the width of the truncated hash used as the short code.
const codeLength = 8

// maxAttempts bounds the salted retries when a derived code is already
// taken by a different recipe.
const maxAttempts = 5

type (
	ShortLinkService interface {
		Resolve(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error)
		Lookup(ctx context.Context, code string) (string, error)
	}

	shortLinkService struct {
		shortLinkRepository ShortLinkRepository
		host                string
	}
)

func NewShortLinkService(shortLinkRepository ShortLinkRepository, host string) ShortLinkService {
	return &shortLinkService{
		shortLinkRepository: shortLinkRepository,
		host:                host,
	}
}

func deriveCode(recipeID uuid.UUID, attempt int) string {
	input := recipeID.String()
	if attempt > 0 {
		input = fmt.Sprintf("%s:%d", input, attempt)
	}
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:codeLength]
}

// Resolve returns the recipe's short code, creating it on first request.
// Once a code is assigned it is never regenerated, so the external URL
// stays stable across calls. A lost insert race against a concurrent
// resolver converges on the winner's row; a code owned by a different
// recipe triggers a salted retry.
func (s *shortLinkService) Resolve(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error) {
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ShortLinkResponse{}, domain.ErrParseUUID
	}

	existing, err := s.shortLinkRepository.GetByRecipeID(ctx, recipeUUID)
	if err == nil {
		return s.toResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ShortLinkResponse{}, err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		link := entities.ShortLink{
			ID:       uuid.New(),
			RecipeID: recipeUUID,
			Code:     deriveCode(recipeUUID, attempt),
			FullURL:  fmt.Sprintf("/recipes/%s", recipeUUID),
		}
		err := s.shortLinkRepository.Create(ctx, &link)
		if err == nil {
			return s.toResponse(&link), nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ShortLinkResponse{}, err
		}

		// Either another request created this recipe's link first, or
		// the code belongs to a different recipe. Re-read to tell the
		// two apart.
		existing, readErr := s.shortLinkRepository.GetByRecipeID(ctx, recipeUUID)
		if readErr == nil {
			return s.toResponse(existing), nil
		}
		if !errors.Is(readErr, gorm.ErrRecordNotFound) {
			return domain.ShortLinkResponse{}, readErr
		}
	}

	return domain.ShortLinkResponse{}, domain.ErrShortLinkCollision
}

func (s *shortLinkService) Lookup(ctx context.Context, code string) (string, error) {
	link, err := s.shortLinkRepository.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrShortLinkNotFound
		}
		return "", err
	}
	return link.FullURL, nil
}

func (s *shortLinkService) toResponse(link *entities.ShortLink) domain.ShortLinkResponse {
	return domain.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s", s.host, link.Code),
	}
}
