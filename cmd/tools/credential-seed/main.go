package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"tsu-signin/internal/app/signin/adapter"
	"tsu-signin/internal/pkg/config"
	"tsu-signin/internal/pkg/redis"
	"tsu-signin/internal/pkg/security"
	"tsu-signin/internal/pkg/validator"
)

func main() {
	email := flag.String("email", "", "Email of the account to seed (required)")
	userID := flag.String("user-id", "", "User ID stored with the credential (random UUID when empty)")
	remove := flag.Bool("delete", false, "Delete the credential instead of writing it")
	flag.Parse()

	if *email == "" {
		log.Fatal("email is required")
	}
	ok, err := validator.NewEmailChecker().IsValid(*email)
	if err != nil || !ok {
		log.Fatalf("invalid email: %s", *email)
	}

	// 密码只从环境变量读取，避免出现在 shell 历史里
	password := os.Getenv("SIGNIN_SEED_PASSWORD")
	if !*remove && password == "" {
		log.Fatal("SIGNIN_SEED_PASSWORD is required")
	}

	port, err := config.GetIntOrDefault("REDIS_PORT", 6379)
	if err != nil {
		log.Fatalf("invalid redis config: %v", err)
	}
	db, err := config.GetIntOrDefault("REDIS_DB", 0)
	if err != nil {
		log.Fatalf("invalid redis config: %v", err)
	}

	rdb, err := redis.NewClient(redis.Config{
		Host:     config.GetEnvOrDefault("REDIS_HOST", "localhost"),
		Port:     port,
		Password: config.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       db,
	}, nil)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := adapter.NewRedisCredentialStore(rdb)
	normalized := adapter.NormalizeEmail(*email)

	if *remove {
		if err := store.Delete(ctx, normalized); err != nil {
			log.Fatalf("failed to delete credential: %v", err)
		}
		fmt.Printf("Deleted credential for %s\n", normalized)
		return
	}

	hasher, err := security.NewHasher(security.DefaultHasherConfig())
	if err != nil {
		log.Fatalf("failed to create hasher: %v", err)
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if *userID == "" {
		*userID = uuid.NewString()
	}
	if err := store.Put(ctx, normalized, adapter.Credential{UserID: *userID, PasswordHash: hash}); err != nil {
		log.Fatalf("failed to write credential: %v", err)
	}

	fmt.Printf("Seeded credential for %s (user_id: %s)\n", normalized, *userID)
}
