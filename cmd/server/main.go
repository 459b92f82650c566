package main

import (
	"log"

	"github.com/scisoft/vnpay-checkout/config"
	"github.com/scisoft/vnpay-checkout/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	if err := server.Run(cfg); err != nil {
		log.Fatalf("Server error: %s", err)
	}
}
