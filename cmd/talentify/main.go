package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"talentify-client/internal/bootstrap"
	"talentify-client/internal/config"
	"talentify-client/internal/session"
	"talentify-client/internal/tracer"

	"github.com/fatih/color"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()

	// 2. Bootstrap dependencies
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Unable to start Talentify: %v", err)
	}
	defer container.Close()

	// 3. Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, "talentify-client", container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Renderer follows every session change
	events, err := container.Events.Subscribe(ctx, session.TopicChanged)
	if err != nil {
		log.Fatalf("Unable to subscribe to session changes: %v", err)
	}
	ui := newTerminal(container, os.Stdout)
	go ui.follow(events)

	// 5. Restore the previous session
	container.Store.Hydrate(ctx)

	color.Cyan("Talentify resume screening. Type 'help' for commands.")
	ui.render()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		ui.prompt()
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := ui.dispatch(ctx, line); quit {
				return
			}
		}
	}
}
