package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	dcmcp "github.com/mkessel/duelcore/internal/mcp"
)

func main() {
	cards := flag.String("cards", "cards.yaml", "path to card set file")
	decks := flag.String("decks", "decks.yaml", "path to decks YAML file")
	port := flag.String("port", "9999", "TCP port for human player connection")
	flag.Parse()

	dcmcp.SetCardsFile(*cards)
	dcmcp.SetDecksFile(*decks)
	dcmcp.SetPort(*port)

	s := server.NewMCPServer("duelcore", "1.0.0")
	dcmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
