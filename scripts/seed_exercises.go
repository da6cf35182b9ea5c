// 预置示例练习脚本
//
// 用法: go run scripts/seed_exercises.go
package main

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/model"
	"codequest_backend/pkg/database"
	"codequest_backend/pkg/logger"
	"log"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var python model.Language
	if err := db.Where("slug = ?", "python").First(&python).Error; err != nil {
		log.Fatalf("Languages not seeded yet, run the server once first: %v", err)
	}
	var js model.Language
	if err := db.Where("slug = ?", "javascript").First(&js).Error; err != nil {
		log.Fatalf("Languages not seeded yet, run the server once first: %v", err)
	}

	exercises := []model.Exercise{
		{
			Title:       "Sum of Two Numbers",
			Description: "Read two integers and print their sum.",
			Difficulty:  1,
			BaseXP:      100,
			PublicCode:  uuid.NewString(),
			LanguageID:  &python.ID,
			IsPublished: true,
		},
		{
			Title:       "FizzBuzz",
			Description: "Print the numbers 1 to 100, replacing multiples of 3 with Fizz, multiples of 5 with Buzz, and multiples of both with FizzBuzz.",
			Difficulty:  1,
			BaseXP:      100,
			PublicCode:  uuid.NewString(),
			LanguageID:  &python.ID,
			IsPublished: true,
		},
		{
			Title:       "Reverse a String",
			Description: "Read a line and print it reversed.",
			Difficulty:  2,
			BaseXP:      150,
			PublicCode:  uuid.NewString(),
			LanguageID:  &js.ID,
			IsPublished: true,
		},
		{
			Title:       "Balanced Brackets",
			Description: "Given a string of brackets, decide whether every opening bracket is closed in the right order.",
			Difficulty:  3,
			BaseXP:      225,
			PublicCode:  uuid.NewString(),
			LanguageID:  &js.ID,
			IsPublished: true,
		},
	}

	for _, e := range exercises {
		var count int64
		db.Model(&model.Exercise{}).Where("title = ?", e.Title).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&e).Error; err != nil {
			log.Printf("Failed to seed %q: %v", e.Title, err)
			continue
		}
		log.Printf("Seeded exercise %q (code %s)", e.Title, e.PublicCode)
	}

	log.Println("Seeding done")
}
