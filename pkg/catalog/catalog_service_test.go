package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

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
	if err := db.AutoMigrate(&entities.Tag{}, &entities.Ingredient{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestImportIngredientsIsRerunnable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(NewCatalogRepository(db))
	ctx := context.Background()
	csvData := "flour,g\nsalt,g\nmilk,ml\n"

	count, err := svc.ImportIngredients(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows imported, got %d", count)
	}

	// A second run over the same file must not create duplicates.
	if _, err := svc.ImportIngredients(ctx, strings.NewReader(csvData)); err != nil {
		t.Fatalf("Re-import failed: %v", err)
	}

	var rows int64
	db.Model(&entities.Ingredient{}).Count(&rows)
	if rows != 3 {
		t.Errorf("Expected 3 ingredients after re-import, found %d", rows)
	}
}

func TestGetIngredientsPrefixFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(NewCatalogRepository(db))
	ctx := context.Background()

	if _, err := svc.ImportIngredients(ctx, strings.NewReader("flour,g\nsalt,g\nflax seed,g\n")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	matches, err := svc.GetIngredients(ctx, "fl")
	if err != nil {
		t.Fatalf("GetIngredients failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches for prefix 'fl', got %d", len(matches))
	}
	if matches[0].Name != "flax seed" || matches[1].Name != "flour" {
		t.Errorf("Expected name-sorted matches, got %v", matches)
	}

	all, err := svc.GetIngredients(ctx, "")
	if err != nil {
		t.Fatalf("GetIngredients failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected empty prefix to return everything, got %d rows", len(all))
	}
}

func TestGetTagNotFound(t *testing.T) {
	svc := NewCatalogService(NewCatalogRepository(setupTestDB(t)))

	_, err := svc.GetTag(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrTagNotFound) {
		t.Errorf("Expected ErrTagNotFound, got %v", err)
	}
}

func TestGetTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	svc := NewCatalogService(repo)
	ctx := context.Background()

	for _, tag := range []entities.Tag{
		{ID: uuid.New(), Name: "Dinner", Slug: "dinner"},
		{ID: uuid.New(), Name: "Breakfast", Slug: "breakfast"},
	} {
		if err := repo.CreateTag(ctx, &tag); err != nil {
			t.Fatalf("CreateTag failed: %v", err)
		}
	}

	tags, err := svc.GetTags(ctx)
	if err != nil {
		t.Fatalf("GetTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(tags))
	}
	if tags[0].Slug != "breakfast" {
		t.Errorf("Expected name-sorted tags, got %v", tags)
	}

	got, err := svc.GetTag(ctx, tags[0].ID)
	if err != nil {
		t.Fatalf("GetTag failed: %v", err)
	}
	if got.Name != "Breakfast" {
		t.Errorf("Expected tag Breakfast, got %s", got.Name)
	}
}

func TestGetIngredientNotFound(t *testing.T) {
	svc := NewCatalogService(NewCatalogRepository(setupTestDB(t)))

	_, err := svc.GetIngredient(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Errorf("Expected ErrIngredientNotFound, got %v", err)
	}
}
