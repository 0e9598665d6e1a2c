package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"foodgram-backend/entities"
	"foodgram-backend/pkg/shortlink"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupShortLinkApp(t *testing.T) (*fiber.App, shortlink.ShortLinkRepository, shortlink.ShortLinkService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&entities.ShortLink{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	repo := shortlink.NewShortLinkRepository(db)
	svc := shortlink.NewShortLinkService(repo, "https://foodgram.example")
	handler := NewShortLinkHandler(svc)

	app := fiber.New()
	app.Get("/s/:code", handler.Redirect)
	app.Get("/api/v1/recipes/:id/get-link", handler.GetLink)
	return app, repo, svc
}

func TestRedirectToRecipe(t *testing.T) {
	app, repo, svc := setupShortLinkApp(t)
	ctx := context.Background()
	recipeID := uuid.New()

	if _, err := svc.Resolve(ctx, recipeID.String()); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	link, err := repo.GetByRecipeID(ctx, recipeID)
	if err != nil {
		t.Fatalf("GetByRecipeID failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/s/"+link.Code, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/recipes/"+recipeID.String() {
		t.Errorf("Expected redirect to recipe, got %s", loc)
	}
}

func TestRedirectUnknownCode(t *testing.T) {
	app, _, _ := setupShortLinkApp(t)

	req := httptest.NewRequest("GET", "/s/deadbeef", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestGetLinkEndpoint(t *testing.T) {
	app, _, _ := setupShortLinkApp(t)
	recipeID := uuid.NewString()

	req := httptest.NewRequest("GET", "/api/v1/recipes/"+recipeID+"/get-link", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// Same recipe must always come back with the same link.
	resp2, err := app.Test(httptest.NewRequest("GET", "/api/v1/recipes/"+recipeID+"/get-link", nil))
	if err != nil {
		t.Fatalf("Second request failed: %v", err)
	}
	if resp2.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status 200 on repeat, got %d", resp2.StatusCode)
	}
}
