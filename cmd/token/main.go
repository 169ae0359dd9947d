// Command token prints a bearer token for the HTTP API, signed with the
// server's configured secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Yijia-Z/dalle2-app/internal/flagx"
	"github.com/Yijia-Z/dalle2-app/internal/server/auth"
	"github.com/Yijia-Z/dalle2-app/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.SecretKey == "" {
		log.Fatal("no secret configured: set DALLE_JWT_SECRET or pass -s")
	}

	var subject string
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	fs.StringVar(&subject, "subject", "studio", "token subject")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-subject", "--subject"}))

	tok, err := auth.GenerateToken(subject, []byte(cfg.SecretKey), cfg.TokenValidity)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(tok)
}
