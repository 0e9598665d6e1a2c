package main

import (
	"log"
	"os"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/cmd/database/seed"
	"foodgram-backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		path := "data/ingredients.csv"
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := seed.Seed(db, path); err != nil {
			log.Fatalf("Database seeding failed: %v", err)
		}
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("App initialization failed: %v", err)
	}

	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
