// Command sandbox runs the scene core headless: it opens the configured scene,
// keeps its resources in sync with the files on disk and logs what a renderer
// would need to draw it until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/config"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/controller"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/event"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/watch"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/xmlio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("sandbox failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Scene files reference resources relative to themselves.
	root := "."
	if cfg.Scene.Path != "" {
		root = filepath.Dir(cfg.Scene.Path)
	}

	// ── Loader ──────────────────────────────────────────────────────────
	ldr := loader.NewLoader(
		loader.WithWorkers(cfg.Loader.Workers),
		loader.WithQueueSize(cfg.Loader.QueueSize),
		loader.WithIdleTimeout(cfg.Loader.IdleTimeout),
		loader.WithMaxTextureSize(cfg.Loader.MaxTextureSize),
		loader.WithRoot(root),
	)
	defer ldr.Close()

	// ── Controller ──────────────────────────────────────────────────────
	bus := event.NewBus()
	ctrl := controller.NewController(
		controller.WithBus(bus),
		controller.WithHistoryDepth(cfg.History.Depth),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	rnd, err := renderer.NewRenderer(
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithSize(cfg.Renderer.Width, cfg.Renderer.Height),
	)
	if err != nil {
		return err
	}

	// ── Scene ───────────────────────────────────────────────────────────
	cam, err := defaultCamera(cfg)
	if err != nil {
		return err
	}
	var desc xmlio.SceneDescription
	if cfg.Scene.Path != "" {
		desc, err = xmlio.ReadFile(cfg.Scene.Path)
		if err != nil {
			return err
		}
		if desc.Camera != nil {
			cam = *desc.Camera
		}
		openCtx, cancel := context.WithTimeout(ctx, time.Minute)
		s, err := xmlio.Open(openCtx, desc, ldr, ctrl)
		cancel()
		if err != nil {
			return err
		}
		slog.Info("scene opened", "path", cfg.Scene.Path,
			"instances", s.InstanceCount(), "lights", s.LightCount(),
			"models", s.ModelCount(), "textures", s.TextureCount())
	}

	bus.AddListener(func(c event.Change) error {
		rs, err := rnd.Prepare(c.Snapshot, cam)
		if err != nil {
			return fmt.Errorf("prepare %s change: %w", c.Category, err)
		}
		st := rnd.Statistics()
		slog.Debug("render scene", "category", c.Category.String(),
			"batches", len(rs.Batches), "visible", rs.InstanceCount(),
			"culled", rs.Culled, "skipped", rs.Skipped,
			"shadow_maps", st.ShadowMaps.Count, "cache_bytes", st.Total().Bytes)
		return nil
	})
	if _, err := rnd.Prepare(ctrl.Snapshot(), cam); err != nil {
		return err
	}

	// ── Hot reload ──────────────────────────────────────────────────────
	if cfg.Watch.Enabled {
		w, err := watch.NewWatcher(ldr, ctrl, watch.WithDebounce(cfg.Watch.Debounce))
		if err != nil {
			return err
		}
		defer w.Close()
		for _, t := range desc.Textures {
			if err := w.WatchTexture(t); err != nil {
				return err
			}
		}
		for _, m := range desc.Models {
			if err := w.WatchModel(m); err != nil {
				return err
			}
		}
	}

	// ── Profiler ────────────────────────────────────────────────────────
	prof := profiler.NewProfiler(profiler.WithInterval(cfg.Profiler.Interval))
	go prof.Run(ctx, ctrl.Snapshot)

	<-ctx.Done()
	st := rnd.Statistics()
	slog.Info("shutting down",
		"shaders", st.Shaders.Count,
		"shadow_maps", st.ShadowMaps.Count,
		"framebuffers", st.Framebuffers.Count,
		"cache_bytes", st.Total().Bytes)
	return nil
}

// defaultCamera looks at the origin from a short distance with the aspect
// ratio of the configured render size.
func defaultCamera(cfg *config.Config) (camera.Camera, error) {
	aspect := float32(16.0 / 9.0)
	if cfg.Renderer.Width > 0 && cfg.Renderer.Height > 0 {
		aspect = float32(cfg.Renderer.Width) / float32(cfg.Renderer.Height)
	}
	frustum, err := camera.NewFrustum(0.1, 1000, mgl32.DegToRad(90), aspect)
	if err != nil {
		return camera.Camera{}, err
	}
	return camera.NewCamera(frustum, camera.WithPosition(mgl32.Vec3{0, 2, 10}))
}
