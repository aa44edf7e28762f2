// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Command road builds the road scene and presents it by
// rendering PNG frames and/or exporting it as glTF.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gviegas/road/gltf"
	"github.com/gviegas/road/internal/config"
	"github.com/gviegas/road/internal/telemetry"
	"github.com/gviegas/road/render"
	"github.com/gviegas/road/road"
	"github.com/gviegas/road/scene"
)

const serviceName = "road"

var tracer = otel.Tracer("github.com/gviegas/road/cmd/road")

type runConfig struct {
	Frames    int    `env:"ROAD_FRAMES" envDefault:"30"`
	FPS       int    `env:"ROAD_FPS" envDefault:"30"`
	Width     int    `env:"ROAD_WIDTH" envDefault:"640"`
	Height    int    `env:"ROAD_HEIGHT" envDefault:"480"`
	Out       string `env:"ROAD_OUT" envDefault:"frames"`
	GLTF      string `env:"ROAD_GLTF"`
	GLB       string `env:"ROAD_GLB"`
	LogLevel  string `env:"ROAD_LOG_LEVEL" envDefault:"info"`
	Telemetry telemetry.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "road:", err)
		os.Exit(1)
	}
}

// parseConfig loads defaults from env and then parses flags.
func parseConfig(args []string, stderr io.Writer) (*runConfig, error) {
	var cfg runConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "number of frames to render (0 disables rendering)")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames per second of scene time")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "frame width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "frame height in pixels")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "directory for rendered frames")
	fs.StringVar(&cfg.GLTF, "gltf", cfg.GLTF, "write the scene as glTF JSON to this file")
	fs.StringVar(&cfg.GLB, "glb", cfg.GLB, "write the scene as binary glTF to this file")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case cfg.Frames < 0:
		return nil, errors.New("frames must not be negative")
	case cfg.FPS < 1:
		return nil, errors.New("fps must be positive")
	case cfg.Width < 1 || cfg.Height < 1:
		return nil, errors.New("frame dimensions must be positive")
	}
	return &cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)
	gg.SetLogger(logger)
	defer render.SetLogger(nil)
	defer gg.SetLogger(nil)

	tp, err := telemetry.NewProvider(ctx, serviceName, &cfg.Telemetry)
	if err != nil {
		return err
	}
	if tp != nil {
		shutdown := telemetry.Install(tp)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("telemetry shutdown", "err", err)
			}
		}()
		logger.Debug("tracing", "endpoint", cfg.Telemetry.Endpoint, "ratio", cfg.Telemetry.SampleRatio)
	}

	_, span := tracer.Start(ctx, "road.Build")
	s := road.Build()
	span.SetAttributes(attribute.Int("scene.objects", s.Len()))
	span.End()
	logger.Info("scene built", "objects", s.Len(), "lanes", len(road.Lanes(s)))

	if cfg.GLTF != "" || cfg.GLB != "" {
		if err := export(ctx, s, cfg, logger); err != nil {
			return err
		}
	}
	if cfg.Frames > 0 {
		return present(ctx, s, cfg, logger)
	}
	return nil
}

// export writes the scene as glTF and/or GLB.
func export(ctx context.Context, s *scene.Scene, cfg *runConfig, logger *slog.Logger) error {
	_, span := tracer.Start(ctx, "gltf.Export")
	defer span.End()
	doc, bin, err := gltf.Export(s)
	if err != nil {
		return err
	}
	if cfg.GLB != "" {
		if err := writeFile(cfg.GLB, func(w io.Writer) error { return gltf.EncodeGLB(w, doc, bin) }); err != nil {
			return fmt.Errorf("write glb: %w", err)
		}
		logger.Info("wrote glb", "path", cfg.GLB, "bytes", len(bin))
	}
	if cfg.GLTF != "" {
		gltf.Embed(doc, bin)
		if err := writeFile(cfg.GLTF, func(w io.Writer) error { return gltf.Encode(w, doc) }); err != nil {
			return fmt.Errorf("write gltf: %w", err)
		}
		logger.Info("wrote gltf", "path", cfg.GLTF, "nodes", len(doc.Nodes), "animations", len(doc.Animations))
	}
	return nil
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(f)
}

// frameTime returns the scene time of frame i at fps
// frames per second.
func frameTime(i, fps int) time.Duration {
	return time.Duration(i) * time.Second / time.Duration(fps)
}

// present renders cfg.Frames frames, frame i at scene
// time i/cfg.FPS.
func present(ctx context.Context, s *scene.Scene, cfg *runConfig, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	r := render.NewRaster(cfg.Width, cfg.Height)
	defer r.Close()
	var rd render.Renderer = r
	var faces int
	for i := 0; i < cfg.Frames; i++ {
		stats, err := rd.Render(ctx, s, frameTime(i, cfg.FPS))
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		path := filepath.Join(cfg.Out, fmt.Sprintf("frame%04d.png", i))
		if err := r.SavePNG(path); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		faces += stats.Faces
	}
	logger.Info("frames rendered", "count", cfg.Frames, "dir", cfg.Out, "faces", faces)
	return nil
}
