package database

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Language{},
		&model.Exercise{},
		&model.ChallengeAttempt{},
		&model.Submission{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 预置执行沙箱支持的语言
	var count int64
	db.Model(&model.Language{}).Count(&count)
	if count == 0 {
		defaultLanguages := []model.Language{
			{Name: "C", Slug: "c"},
			{Name: "C++", Slug: "cpp"},
			{Name: "Java", Slug: "java"},
			{Name: "Python", Slug: "python"},
			{Name: "JavaScript", Slug: "javascript"},
			{Name: "TypeScript", Slug: "typescript"},
			{Name: "Bash", Slug: "bash"},
			{Name: "C#", Slug: "csharp"},
			{Name: "Go", Slug: "go"},
			{Name: "Rust", Slug: "rust"},
			{Name: "PHP", Slug: "php"},
			{Name: "Ruby", Slug: "ruby"},
			{Name: "Swift", Slug: "swift"},
			{Name: "Kotlin", Slug: "kotlin"},
			{Name: "Scala", Slug: "scala"},
		}
		for _, l := range defaultLanguages {
			db.Create(&l)
		}
	}

	return db, nil
}
