// Package main provides an offline renderer: it loads a dataset directory
// and writes one PNG per layer and time bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/transitflow/transitflow/internal/dataset"
	"github.com/transitflow/transitflow/internal/render"
)

func main() {
	dataDir := flag.String("data", "./data", "dataset directory")
	outDir := flag.String("out", "./out", "output directory for PNG frames")
	width := flag.Int("width", 1024, "viewport width in pixels")
	height := flag.Int("height", 768, "viewport height in pixels")
	bucket := flag.String("bucket", "", "render a single time bucket (default: all)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	if err := run(log, *dataDir, *outDir, *width, *height, *bucket); err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}
}

func run(log zerolog.Logger, dataDir, outDir string, width, height int, onlyBucket string) error {
	loader := dataset.NewLoader(log)
	ds, err := loader.Load(os.DirFS(dataDir))
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	svc, err := render.NewService(ds, nil, render.Config{
		Width:  width,
		Height: height,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("build render service: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	ctx := context.Background()

	buckets := svc.Buckets()
	if onlyBucket != "" {
		buckets = []string{onlyBucket}
	}

	for _, b := range buckets {
		frame, err := svc.RenderRoutes(ctx, b)
		if err != nil {
			return fmt.Errorf("render routes %s: %w", b, err)
		}
		if err := writePNG(outDir, "routes_"+b, frame); err != nil {
			return err
		}

		frame, err = svc.RenderHeatmap(ctx, b)
		if err != nil {
			return fmt.Errorf("render heatmap %s: %w", b, err)
		}
		if err := writePNG(outDir, "heatmap_"+b, frame); err != nil {
			return err
		}
		log.Info().Str("bucket", b).Msg("bucket rendered")
	}

	// Population density baseline, independent of any bucket.
	if len(ds.Population) > 0 {
		frame, err := svc.RenderHeatmap(ctx, "")
		if err != nil {
			return fmt.Errorf("render population heatmap: %w", err)
		}
		if err := writePNG(outDir, "population", frame); err != nil {
			return err
		}
	}

	return nil
}

func writePNG(dir, name string, frame *image.NRGBA) error {
	if frame == nil {
		return fmt.Errorf("no frame rendered for %s", name)
	}

	// Bucket labels like "08:00" are not filename friendly.
	safe := strings.ReplaceAll(name, ":", "")
	path := filepath.Join(dir, safe+".png")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
