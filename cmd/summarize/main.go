package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/globalmedics/transcript-summarizer/internal/commands"
	"github.com/globalmedics/transcript-summarizer/internal/config"
	"github.com/globalmedics/transcript-summarizer/internal/llm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := commands.NewSummarizeCmd(func(cfg *config.ModelConfig) (llm.Provider, error) {
		client, err := llm.NewOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
