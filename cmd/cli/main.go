package main

import (
	"context"
	"log"
	"os"

	"github.com/joao-paulo-santos/bloqedex/internal/buildinfo"
	"github.com/joao-paulo-santos/bloqedex/internal/client/cli"
	"github.com/joao-paulo-santos/bloqedex/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
