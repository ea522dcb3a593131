package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/database"
	"github.com/prepforge/cbt-backend/internal/logger"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/repository"
	"github.com/prepforge/cbt-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool)
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService, nil, log)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Administrator ===")

	fmt.Print("Enter Full Name: ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	user, err := userService.Register(ctx, &model.RegisterRequest{
		Email:    email,
		Password: password,
		Role:     string(model.RoleAdministrator),
		FullName: fullName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create administrator")
	}

	fmt.Printf("\nSuccess! Administrator '%s' (%s) created with ID: %d\n", user.FullName, user.Email, user.ID)
}
