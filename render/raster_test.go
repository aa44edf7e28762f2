// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"log/slog"
	"testing"
	"time"

	"github.com/gviegas/road/linear"
	"github.com/gviegas/road/road"
	"github.com/gviegas/road/scene"
)

func TestRaster(t *testing.T) {
	const width, height = 64, 48
	r := NewRaster(width, height)
	defer r.Close()
	s := road.Build()

	var rd Renderer = r
	for _, d := range [...]time.Duration{0, 100 * time.Millisecond, time.Second} {
		stats, err := rd.Render(context.Background(), s, d)
		if err != nil {
			t.Fatalf("Raster.Render failed:\n%#v", err)
		}
		if stats.Objects != 53 {
			t.Fatalf("Stats.Objects:\nhave %d\nwant 53", stats.Objects)
		}
		if stats.Faces == 0 {
			t.Fatal("Stats.Faces: want some faces drawn")
		}
		if s.Time() != d {
			t.Fatalf("Scene.Time:\nhave %v\nwant %v", s.Time(), d)
		}
	}

	img := r.Image()
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		t.Fatalf("Raster.Image: bounds\nhave %v\nwant %dx%d", b, width, height)
	}
	// The camera looks down steeply enough that the
	// ground covers the whole view.
	red, green, blue, _ := img.At(1, 1).RGBA()
	if red < 0xe000 || green < 0xe000 || blue < 0xe000 {
		t.Fatalf("Raster.Image: corner pixel\nhave %x %x %x\nwant white ground", red, green, blue)
	}

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("Raster.EncodePNG failed:\n%#v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("png.Decode failed:\n%#v", err)
	}
}

func TestRasterSky(t *testing.T) {
	s := scene.New()
	cam := scene.NewObject("camera")
	c := scene.DefaultCamera()
	cam.Camera = &c
	cam.SetPosition(linear.V3{0, 1, 0})
	if err := s.Insert(cam, nil); err != nil {
		t.Fatalf("Scene.Insert failed:\n%#v", err)
	}
	ground := scene.NewObject("ground")
	ground.Geometry = &scene.Geometry{Shape: scene.Floor{}, Material: scene.White}
	if err := s.Insert(ground, nil); err != nil {
		t.Fatalf("Scene.Insert failed:\n%#v", err)
	}

	r := NewRaster(32, 32)
	defer r.Close()
	if _, err := r.Render(context.Background(), s, 0); err != nil {
		t.Fatalf("Raster.Render failed:\n%#v", err)
	}
	// Looking at the horizon: sky above, ground below.
	img := r.Image()
	_, _, skyB, _ := img.At(16, 2).RGBA()
	gr, _, _, _ := img.At(16, 29).RGBA()
	sr, _, _, _ := img.At(16, 2).RGBA()
	if gr < 0xe000 {
		t.Fatalf("Raster.Image: ground pixel red\nhave %x\nwant white", gr)
	}
	if sr >= gr || skyB < 0xc000 {
		t.Fatalf("Raster.Image: sky pixel\nhave red %x blue %x", sr, skyB)
	}
}

func TestRasterErrors(t *testing.T) {
	r := NewRaster(8, 8)
	defer r.Close()
	if _, err := r.Render(context.Background(), scene.New(), 0); !errors.Is(err, ErrNoCamera) {
		t.Fatalf("Raster.Render: no camera\nhave %v\nwant %v", err, ErrNoCamera)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, road.Build(), 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("Raster.Render: canceled\nhave %v\nwant %v", err, context.Canceled)
	}
}

func TestMirrorMatrix(t *testing.T) {
	var w, m linear.M4
	w.Translate(0, 1, 0)
	mirrorMatrix(&m, &w)
	if p := m.Point(&linear.V3{2, 3, -4}); p != (linear.V3{2, -1, -4}) {
		t.Fatalf("mirrorMatrix:\nhave %v\nwant [2 -1 -4]", p)
	}
}

// recorder is a slog.Handler that keeps every record.
type recorder struct{ recs []slog.Record }

func (h *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (h *recorder) Handle(_ context.Context, r slog.Record) error {
	h.recs = append(h.recs, r.Clone())
	return nil
}
func (h *recorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recorder) WithGroup(string) slog.Handler      { return h }

func TestRasterStats(t *testing.T) {
	var h recorder
	SetLogger(slog.New(&h))
	defer SetLogger(nil)

	r := NewRaster(32, 24)
	defer r.Close()
	s := road.Build()
	const d = 150 * time.Millisecond
	stats, err := r.Render(context.Background(), s, d)
	if err != nil {
		t.Fatalf("Raster.Render failed:\n%#v", err)
	}
	if len(h.recs) != 1 {
		t.Fatalf("records logged:\nhave %d\nwant 1", len(h.recs))
	}
	rec := h.recs[0]
	if rec.Message != "frame" || rec.Level != slog.LevelInfo {
		t.Fatalf("record:\nhave %s %q\nwant INFO \"frame\"", rec.Level, rec.Message)
	}
	attrs := make(map[string]slog.Value)
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	for _, x := range [...]struct {
		key  string
		want int64
	}{
		{"objects", int64(stats.Objects)},
		{"faces", int64(stats.Faces)},
		{"culled", int64(stats.Culled)},
	} {
		if have := attrs[x.key].Int64(); have != x.want {
			t.Fatalf("record attr %s:\nhave %d\nwant %d", x.key, have, x.want)
		}
	}
	if have := attrs["time"].Duration(); have != d {
		t.Fatalf("record attr time:\nhave %v\nwant %v", have, d)
	}
	if _, ok := attrs["elapsed"]; !ok {
		t.Fatal("record attr elapsed: missing")
	}

	s.Display.ShowStats = false
	if _, err := r.Render(context.Background(), s, d); err != nil {
		t.Fatalf("Raster.Render failed:\n%#v", err)
	}
	if len(h.recs) != 1 {
		t.Fatalf("records logged with ShowStats off:\nhave %d\nwant 1", len(h.recs))
	}
}
