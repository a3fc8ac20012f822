package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/innovatepam/ideatracker/internal/authctl"
	"github.com/innovatepam/ideatracker/internal/server/config"
)

func main() {

	args := os.Args[1:]
	if !authctl.NeedsStore(args) {
		authctl.Usage(os.Stdout)
		if len(args) == 0 || (args[0] != "help" && args[0] != "-h" && args[0] != "--help") {
			os.Exit(2)
		}
		return
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := authctl.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, args)
	app.Close()

	if err != nil {
		if errors.Is(err, authctl.ErrUsage) {
			log.Printf("%v", err)
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}

}
