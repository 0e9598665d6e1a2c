package user

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string, currentUserID string) (domain.UserResponse, error)
		UpdateAvatar(ctx context.Context, userID string, imageBase64 string) (domain.AvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
		Subscribe(ctx context.Context, userID, targetID string) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, targetID string) error
		GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionResponse, error)
	}

	// FileUploader is the object-storage seam for avatar images.
	FileUploader interface {
		UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		relationService  relation.RelationService
		jwtService       jwt.JWTService
		uploader         FileUploader
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationService relation.RelationService,
	jwtService jwt.JWTService,
	uploader FileUploader,
) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		relationService:  relationService,
		jwtService:       jwtService,
		uploader:         uploader,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if strings.EqualFold(req.Username, "me") {
		return domain.UserResponse{}, domain.ErrReservedUsername
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}
	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.UserResponse{}, err
	}

	return s.toResponse(&user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), domain.RoleUser)
	return domain.LoginResponse{Token: token}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return s.toResponse(user, false), nil
}

func (s *userService) GetUser(ctx context.Context, id string, currentUserID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	isSubscribed := false
	if currentUserID != "" {
		isSubscribed, _ = s.relationService.Exists(ctx, domain.KindFollow, currentUserID, id)
	}
	return s.toResponse(user, isSubscribed), nil
}

// UpdateAvatar decodes the submitted base64 image, pushes it to object
// storage and stores the resulting URL on the user.
func (s *userService) UpdateAvatar(ctx context.Context, userID string, imageBase64 string) (domain.AvatarResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AvatarResponse{}, domain.ErrUserNotFound
		}
		return domain.AvatarResponse{}, err
	}

	payload := imageBase64
	contentType := "image/png"
	if idx := strings.Index(payload, ";base64,"); idx > 0 {
		contentType = strings.TrimPrefix(payload[:idx], "data:")
		payload = payload[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	key := fmt.Sprintf("users/%s/avatar", user.ID)
	url, err := s.uploader.UploadFile(ctx, key, data, contentType)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	user.AvatarURL = url
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.AvatarResponse{}, err
	}

	return domain.AvatarResponse{Avatar: url, UpdatedAt: user.UpdatedAt}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	user.AvatarURL = ""
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrPasswordInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

// Subscribe follows another author. The self-follow check lives in the
// relation layer and fires before any insert is attempted.
func (s *userService) Subscribe(ctx context.Context, userID, targetID string) (domain.SubscriptionResponse, error) {
	target, err := s.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	if err := s.relationService.Add(ctx, domain.KindFollow, userID, targetID); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	return s.toSubscription(ctx, target)
}

func (s *userService) Unsubscribe(ctx context.Context, userID, targetID string) error {
	if _, err := s.userRepository.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return s.relationService.Remove(ctx, domain.KindFollow, userID, targetID)
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionResponse, error) {
	targetIDs, err := s.relationService.TargetIDs(ctx, domain.KindFollow, userID)
	if err != nil {
		return nil, err
	}
	if len(targetIDs) == 0 {
		return []domain.SubscriptionResponse{}, nil
	}

	authors, err := s.userRepository.GetUsersByIDs(ctx, targetIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		sub, err := s.toSubscription(ctx, author)
		if err != nil {
			return nil, err
		}
		sub.IsSubscribed = true
		result = append(result, sub)
	}
	return result, nil
}

func (s *userService) toSubscription(ctx context.Context, author *entities.User) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	short := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, domain.RecipeShortResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		UserResponse: s.toResponse(author, true),
		Recipes:      short,
		RecipesCount: len(short),
	}, nil
}

func (s *userService) toResponse(user *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Avatar:       user.AvatarURL,
		IsSubscribed: isSubscribed,
	}
}
