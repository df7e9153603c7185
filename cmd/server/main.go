package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rbac_system/internal/api"
	"rbac_system/internal/app/service"
	"rbac_system/internal/common/security"
	"rbac_system/internal/domain/repository"
	"rbac_system/internal/platform/cache"
	"rbac_system/internal/platform/config"
	"rbac_system/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)

	// 6. Initialize Services
	identityCache := service.NewIdentityCache(cache.RDB,
		time.Duration(config.AppConfig.IdentityCacheTTLSeconds)*time.Second)
	authService := service.NewAuthService(userRepo, identityCache, config.AppConfig.JWTExp)
	userService := service.NewUserService(userRepo, identityCache)

	// 7. Seed default accounts on an empty directory
	if config.AppConfig.SeedDefaultUsers {
		if err := userService.SeedDefaults(context.Background()); err != nil {
			log.Fatalf("Could not seed default users: %v", err)
		}
	}

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
