package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	dcnet "github.com/mkessel/duelcore/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "host":
		runHost(os.Args[2:])
	case "join":
		runJoin(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  duelcore-cli host [--deck N] [--port P] [--cards FILE] [--decks FILE]")
	fmt.Println("  duelcore-cli join [--deck N] [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a match server and play as Player 1")
	fmt.Println("  join    Connect to a match server and play as Player 2")
}

func runHost(args []string) {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from decks.yaml)")
	port := fs.String("port", "9000", "TCP port to listen on")
	cardsFile := fs.String("cards", "cards.yaml", "path to card set file")
	decksFile := fs.String("decks", "decks.yaml", "path to decks file")
	fs.Parse(args)

	audit, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer audit.Sync()

	srv := &dcnet.Server{
		CardFile: *cardsFile,
		DeckFile: *decksFile,
		Port:     *port,
		HostDeck: *deck,
		Audit:    audit,
	}

	if err := srv.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runJoin(args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 2, "deck number to use (from decks.yaml)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	if err := dcnet.Connect(context.Background(), *addr, *deck); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
