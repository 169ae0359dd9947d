package main

import (
	"context"
	"log"
	"os"

	"github.com/Yijia-Z/dalle2-app/internal/buildinfo"
	"github.com/Yijia-Z/dalle2-app/internal/client/cli"
	"github.com/Yijia-Z/dalle2-app/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
