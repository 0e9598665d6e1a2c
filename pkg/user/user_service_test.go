package user

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/relation"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubUploader struct {
	lastKey string
}

func (u *stubUploader) UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	u.lastKey = key
	return "https://cdn.example/" + key, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Tag{},
		&entities.Recipe{},
		&entities.UserRelation{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (UserService, *gorm.DB, *stubUploader) {
	db := setupTestDB(t)
	uploader := &stubUploader{}
	svc := NewUserService(
		NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		relation.NewRelationService(relation.NewRelationRepository(db)),
		jwt.NewJWTService(),
		uploader,
	)
	return svc, db, uploader
}

func registerTestUser(t *testing.T, svc UserService, email, username string) domain.UserResponse {
	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res := registerTestUser(t, svc, "cook@example.com", "cook")
	if res.Email != "cook@example.com" || res.Username != "cook" {
		t.Errorf("Unexpected register response: %v", res)
	}

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Token == "" {
		t.Error("Expected a token on successful login")
	}

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Errorf("Expected ErrCredentialsInvalid, got %v", err)
	}
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Errorf("Expected ErrCredentialsInvalid for unknown email, got %v", err)
	}
}

func TestRegisterReservedUsername(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "me@example.com",
		Username:  "Me",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if !errors.Is(err, domain.ErrReservedUsername) {
		t.Errorf("Expected ErrReservedUsername, got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registerTestUser(t, svc, "cook@example.com", "cook")

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook2",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Errorf("Expected ErrEmailAlreadyExists, got %v", err)
	}

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Email:     "cook2@example.com",
		Username:  "cook",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	res := registerTestUser(t, svc, "cook@example.com", "cook")

	err := svc.SetPassword(ctx, res.ID, domain.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword",
	})
	if !errors.Is(err, domain.ErrPasswordInvalid) {
		t.Errorf("Expected ErrPasswordInvalid, got %v", err)
	}

	if err := svc.SetPassword(ctx, res.ID, domain.SetPasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword",
	}); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "newpassword"}); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}
}

func TestSubscribeFlow(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	follower := registerTestUser(t, svc, "follower@example.com", "follower")
	author := registerTestUser(t, svc, "author@example.com", "author")

	authorID, err := uuid.Parse(author.ID)
	if err != nil {
		t.Fatalf("Bad author id: %v", err)
	}
	if err := db.Create(&entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}).Error; err != nil {
		t.Fatalf("Failed to seed recipe: %v", err)
	}

	sub, err := svc.Subscribe(ctx, follower.ID, author.ID)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if sub.Username != "author" || !sub.IsSubscribed {
		t.Errorf("Unexpected subscription response: %v", sub)
	}
	if sub.RecipesCount != 1 || len(sub.Recipes) != 1 {
		t.Errorf("Expected the author's recipe in the response, got %v", sub)
	}

	_, err = svc.Subscribe(ctx, follower.ID, author.ID)
	if !errors.Is(err, domain.ErrAlreadyAdded) {
		t.Errorf("Expected ErrAlreadyAdded, got %v", err)
	}

	_, err = svc.Subscribe(ctx, follower.ID, follower.ID)
	if !errors.Is(err, domain.ErrSelfFollow) {
		t.Errorf("Expected ErrSelfFollow, got %v", err)
	}

	_, err = svc.Subscribe(ctx, follower.ID, uuid.NewString())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	subs, err := svc.GetSubscriptions(ctx, follower.ID)
	if err != nil {
		t.Fatalf("GetSubscriptions failed: %v", err)
	}
	if len(subs) != 1 || subs[0].Username != "author" {
		t.Errorf("Expected one subscription to author, got %v", subs)
	}

	profile, err := svc.GetUser(ctx, author.ID, follower.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if !profile.IsSubscribed {
		t.Error("Expected IsSubscribed true on the author's profile")
	}

	if err := svc.Unsubscribe(ctx, follower.ID, author.ID); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	err = svc.Unsubscribe(ctx, follower.ID, author.ID)
	if !errors.Is(err, domain.ErrAlreadyRemoved) {
		t.Errorf("Expected ErrAlreadyRemoved, got %v", err)
	}
}

func TestUpdateAndDeleteAvatar(t *testing.T) {
	svc, _, uploader := newTestService(t)
	ctx := context.Background()
	res := registerTestUser(t, svc, "cook@example.com", "cook")

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	avatar, err := svc.UpdateAvatar(ctx, res.ID, payload)
	if err != nil {
		t.Fatalf("UpdateAvatar failed: %v", err)
	}
	if avatar.Avatar == "" {
		t.Error("Expected avatar URL in response")
	}
	if uploader.lastKey == "" {
		t.Error("Expected upload to reach object storage")
	}

	me, err := svc.Me(ctx, res.ID)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.Avatar != avatar.Avatar {
		t.Errorf("Expected stored avatar %s, got %s", avatar.Avatar, me.Avatar)
	}

	if err := svc.DeleteAvatar(ctx, res.ID); err != nil {
		t.Fatalf("DeleteAvatar failed: %v", err)
	}
	me, err = svc.Me(ctx, res.ID)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.Avatar != "" {
		t.Errorf("Expected avatar cleared, got %s", me.Avatar)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetUser(context.Background(), uuid.NewString(), "")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
