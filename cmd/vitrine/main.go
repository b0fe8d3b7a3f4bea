package main

import (
	"log"

	"github.com/vitrinelabs/vitrine/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ vitrine failed to start: %v", err)
	}
}
