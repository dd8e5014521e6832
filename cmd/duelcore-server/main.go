package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/mkessel/duelcore/internal/catalog"
	"github.com/mkessel/duelcore/internal/web"
)

func main() {
	cfg, err := web.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment.
	port := flag.Int("port", cfg.Port, "HTTP port to listen on")
	cardsFile := flag.String("cards", cfg.CardFile, "path to card set file")
	decksFile := flag.String("decks", cfg.DeckFile, "path to decks YAML file")
	flag.Parse()
	cfg.Port = *port
	cfg.CardFile = *cardsFile
	cfg.DeckFile = *decksFile

	audit, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer audit.Sync()

	loader := catalog.NewLoader(audit)
	defs, err := loader.LoadSet(cfg.CardFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	reg := catalog.NewRegistry()
	reg.Add(defs...)

	srv := web.NewServer(cfg, reg)
	log.Printf("duelcore gateway listening on http://localhost:%d (%d cards)", cfg.Port, reg.Len())
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
