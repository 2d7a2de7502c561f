package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_token.go <identity> [email]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to issue development tokens in production")
	}

	identity := os.Args[1]
	email := ""
	if len(os.Args) > 2 {
		email = os.Args[2]
	}

	manager := auth.NewJWTManager(cfg)
	token, err := manager.GenerateAccessToken(identity, email)
	if err != nil {
		log.Fatal("Error generating token:", err)
	}

	if _, err := manager.ValidateAccessToken(token); err != nil {
		log.Fatal("Token verification failed:", err)
	}

	fmt.Printf("Identity: %s\n", identity)
	fmt.Printf("Expires in: %s\n", cfg.JWT.AccessTokenExpiry)
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println("✅ Token verified successfully!")
}
