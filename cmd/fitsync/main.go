package main

import (
	"context"
	"log"

	"github.com/fitsyncapp/fitsync/internal/app"
	"github.com/fitsyncapp/fitsync/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
