package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/farmstand/internal/devserver"
	"github.com/dmitrijs2005/farmstand/internal/devserver/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	if err := devserver.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}

}
