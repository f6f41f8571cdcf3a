// devtoken firma un token HS256 para probar la API con AUTH_MODE=jwt.
//
//	AUTH_JWT_SECRET=dev go run ./cmd/devtoken -user u1 -ttl 2h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"nightspark/internal/adapters/auth/jwtverifier"
	"nightspark/internal/platform/config"
)

func main() {
	user := flag.String("user", "", "user id (claim sub)")
	email := flag.String("email", "", "email opcional")
	ttl := flag.Duration("ttl", time.Hour, "vigencia del token")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}

	v, err := jwtverifier.New(cfg.Auth.JWTSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v (set AUTH_JWT_SECRET)\n", err)
		os.Exit(1)
	}

	tok, err := v.Issue(*user, *email, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
