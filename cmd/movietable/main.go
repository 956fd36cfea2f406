package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Clark-Hu/movie-table/internal/console"
	"github.com/Clark-Hu/movie-table/internal/prompt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asker := prompt.NewTerminal(prompt.WithInput(os.Stdin), prompt.WithOutput(os.Stdout))
	if err := console.New(os.Stdin, os.Stdout, asker).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("movietable: %v", err)
	}
}
