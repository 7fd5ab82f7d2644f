// Command token-generator mints an access token for local development. The
// server validates tokens but never issues them; an external identity
// provider does that in production.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/scry-cards/internal/config"
	"github.com/phrazzld/scry-cards/internal/service/auth"
)

func main() {
	userFlag := flag.String("user", "", "user ID to embed (default: a new random UUID)")
	lifetime := flag.Int("lifetime", config.DefaultTokenLifetime, "token lifetime in minutes")
	flag.Parse()

	_ = godotenv.Load()

	userID := uuid.New()
	if *userFlag != "" {
		parsed, err := uuid.Parse(*userFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user ID %q: %v\n", *userFlag, err)
			os.Exit(2)
		}
		userID = parsed
	}

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            os.Getenv("SCRY_AUTH_JWT_SECRET"),
		TokenLifetimeMinutes: *lifetime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create token service (is SCRY_AUTH_JWT_SECRET set?): %v\n", err)
		os.Exit(1)
	}

	token, err := svc.GenerateToken(context.Background(), userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User: %s\nToken: %s\n", userID, token)
}
