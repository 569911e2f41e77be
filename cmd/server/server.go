package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/marben/mandelraster/raster"
)

// main is the entry point for the Mandelbrot preview server.
// Renders run on one shared worker pool; the server only parses requests and
// encodes the results.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	port := flag.Int("port", 8080, "http port")
	workers := flag.Int("workers", 0, "worker pool size (default: GOMAXPROCS)")
	jobs := flag.Int("jobs", 2, "renders allowed to run at the same time")
	flag.Parse()

	renderer := raster.New(raster.Options{Workers: *workers})
	defer renderer.Close()

	srv := webServer(newRenderService(renderer, *jobs), *port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("httpServer shutdown: %v", err)
		}
	}()

	log.Printf("mb server rendering on %d workers", renderer.Workers())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}
