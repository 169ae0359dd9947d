package main

import (
	"context"
	"log"
	"os"

	"github.com/Yijia-Z/dalle2-app/internal/buildinfo"
	"github.com/Yijia-Z/dalle2-app/internal/server"
	"github.com/Yijia-Z/dalle2-app/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
