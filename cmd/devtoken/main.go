package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/alugacar/alugacar-web/internal/config"
	"github.com/alugacar/alugacar-web/internal/pkg/jwt"
)

// devtoken prints an access token signed with JWT_SECRET for local testing
// against the booking API.
func main() {
	userID := flag.String("user", "", "user id (lesseeId) the token is issued for")
	name := flag.String("name", "", "display name")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_ACCESS_TTL)")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg := config.Load()
	if cfg.IsProduction() {
		log.Fatal("refusing to mint tokens with ENV=production")
	}

	lifetime := cfg.JWTAccessTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := jwt.NewService(cfg.JWTSecret, lifetime).GenerateAccessToken(*userID, *name)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(token)
	fmt.Printf("expires: %s\n", time.Now().Add(lifetime).Format(time.RFC3339))
}
