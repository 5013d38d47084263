package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"userdir/internal/cache"
	"userdir/internal/config"
	"userdir/internal/db"
	"userdir/internal/dto"
	"userdir/internal/logger"
	"userdir/internal/model"
	"userdir/internal/repository"
	"userdir/internal/service"
)

// Seeds the directory with sample users. Inserting through the service keeps
// password hashing and uniqueness rules in effect.
func main() {
	count := flag.Int("count", 10, "number of sample users to create")
	flag.Parse()

	cfg := config.Load()
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := service.NewUserService(repository.NewUserRepository(gormDB), cacheClient, logg)

	created := 0
	for i := 0; i < *count; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAdmin
		}
		req := dto.CreateUserRequest{
			Name:     fmt.Sprintf("Sample User %d", i+1),
			Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
			Password: "SamplePassword123!",
			Role:     role,
		}
		if _, err := svc.Create(context.Background(), req); err != nil {
			log.Printf("skipping user %d: %v", i+1, err)
			continue
		}
		created++
	}

	logg.Info("seed finished", "created", created, "requested", *count)
}
