package seed

import (
	"context"
	"fmt"
	"log"
	"os"

	"foodgram-backend/entities"
	"foodgram-backend/pkg/catalog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var defaultTags = []entities.Tag{
	{Name: "Breakfast", Slug: "breakfast"},
	{Name: "Lunch", Slug: "lunch"},
	{Name: "Dinner", Slug: "dinner"},
}

// Seed loads the ingredient catalog from a CSV file and inserts the
// default tags. Re-running it skips rows that already exist.
func Seed(db *gorm.DB, ingredientsPath string) error {
	ctx := context.Background()
	repository := catalog.NewCatalogRepository(db)
	service := catalog.NewCatalogService(repository)

	file, err := os.Open(ingredientsPath)
	if err != nil {
		log.Printf("Error opening ingredients file: %v", err)
		return err
	}
	defer file.Close()

	count, err := service.ImportIngredients(ctx, file)
	if err != nil {
		log.Printf("Error importing ingredients: %v", err)
		return err
	}

	for _, tag := range defaultTags {
		tag.ID = uuid.New()
		if err := repository.CreateTag(ctx, &tag); err != nil {
			log.Printf("Error seeding tag %s: %v", tag.Slug, err)
			return err
		}
	}

	fmt.Printf("Database seeding complete, %d ingredients imported\n", count)
	return nil
}
