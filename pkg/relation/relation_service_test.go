package relation

import (
	"context"
	"errors"
	"sync"
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
	if err := db.AutoMigrate(&entities.UserRelation{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func newTestService(t *testing.T) RelationService {
	return NewRelationService(NewRelationRepository(setupTestDB(t)))
}

func TestAddTwiceReturnsAlreadyAdded(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()
	targetID := uuid.NewString()

	if err := svc.Add(ctx, domain.KindFavorite, userID, targetID); err != nil {
		t.Fatalf("First add failed: %v", err)
	}
	err := svc.Add(ctx, domain.KindFavorite, userID, targetID)
	if !errors.Is(err, domain.ErrAlreadyAdded) {
		t.Errorf("Expected ErrAlreadyAdded, got %v", err)
	}

	exists, err := svc.Exists(ctx, domain.KindFavorite, userID, targetID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected relation to exist after add")
	}
}

func TestRemoveTwiceReturnsAlreadyRemoved(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()
	targetID := uuid.NewString()

	if err := svc.Add(ctx, domain.KindShoppingCart, userID, targetID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Remove(ctx, domain.KindShoppingCart, userID, targetID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	err := svc.Remove(ctx, domain.KindShoppingCart, userID, targetID)
	if !errors.Is(err, domain.ErrAlreadyRemoved) {
		t.Errorf("Expected ErrAlreadyRemoved, got %v", err)
	}
}

func TestRemoveWithoutAddReturnsAlreadyRemoved(t *testing.T) {
	svc := newTestService(t)

	err := svc.Remove(context.Background(), domain.KindFavorite, uuid.NewString(), uuid.NewString())
	if !errors.Is(err, domain.ErrAlreadyRemoved) {
		t.Errorf("Expected ErrAlreadyRemoved, got %v", err)
	}
}

func TestKindsAreIndependent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()
	targetID := uuid.NewString()

	if err := svc.Add(ctx, domain.KindFavorite, userID, targetID); err != nil {
		t.Fatalf("Favorite add failed: %v", err)
	}
	if err := svc.Add(ctx, domain.KindShoppingCart, userID, targetID); err != nil {
		t.Fatalf("Shopping cart add failed: %v", err)
	}

	if err := svc.Remove(ctx, domain.KindFavorite, userID, targetID); err != nil {
		t.Fatalf("Favorite remove failed: %v", err)
	}
	exists, err := svc.Exists(ctx, domain.KindShoppingCart, userID, targetID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Removing a favorite must not touch the shopping cart entry")
	}
}

func TestSelfFollowRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	err := svc.Add(ctx, domain.KindFollow, userID, userID)
	if !errors.Is(err, domain.ErrSelfFollow) {
		t.Errorf("Expected ErrSelfFollow, got %v", err)
	}
}

func TestAddRejectsMalformedID(t *testing.T) {
	svc := newTestService(t)

	err := svc.Add(context.Background(), domain.KindFavorite, "not-a-uuid", uuid.NewString())
	if !errors.Is(err, domain.ErrParseUUID) {
		t.Errorf("Expected ErrParseUUID, got %v", err)
	}
}

func TestConcurrentAddsKeepSingleRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()
	userID := uuid.NewString()
	targetID := uuid.NewString()

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Add(ctx, domain.KindFavorite, userID, targetID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrAlreadyAdded) {
			t.Errorf("Unexpected error from concurrent add: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("Expected exactly one add to succeed, got %d", succeeded)
	}

	var count int64
	db.Model(&entities.UserRelation{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single relation row, found %d", count)
	}
}

func TestTargetIDsOrderedByAddTime(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.NewString()
	first := uuid.NewString()
	second := uuid.NewString()

	if err := svc.Add(ctx, domain.KindFollow, userID, first); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Add(ctx, domain.KindFollow, userID, second); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ids, err := svc.TargetIDs(ctx, domain.KindFollow, userID)
	if err != nil {
		t.Fatalf("TargetIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(ids))
	}
	if ids[0].String() != first || ids[1].String() != second {
		t.Errorf("Targets out of insertion order: %v", ids)
	}
}
