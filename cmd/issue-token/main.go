package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-bookstore-backoffice/pkg/jwt"

	"github.com/joho/godotenv"
)

// issue-token prints a bearer token for an internal service calling the back office.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	service := flag.String("service", "", "name of the calling service")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if *service == "" {
		log.Fatal("-service is required")
	}

	token, err := jwt.GenerateToken([]byte(os.Getenv("JWT_SECRET")), *service, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
