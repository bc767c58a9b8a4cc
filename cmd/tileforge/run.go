package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tileforge/internal/config"
	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/editor"
	"github.com/Faultbox/tileforge/internal/input/sdlinput"
	"github.com/Faultbox/tileforge/internal/logger"
	"github.com/Faultbox/tileforge/internal/mesh"
	"github.com/Faultbox/tileforge/internal/script"
	"github.com/Faultbox/tileforge/pkg/math"
)

const windowTitle = "tileforge"

func newRunCmd() *cobra.Command {
	var scriptPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the editor window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(scriptPath)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "Replay a script before opening the window")
	return cmd
}

func runEditor(scriptPath string) error {
	session := editor.NewSession(cfg)
	cache := mesh.NewCache(mesh.BuildOptions{TwoSided: !cfg.Editor.CullBackfaces})
	session.OnStale = func(refs []document.ObjectRef) {
		cache.Rebuild(session.Scene, refs)
	}

	if scriptPath != "" {
		sc, err := script.Load(scriptPath)
		if err != nil {
			return err
		}
		report, err := script.Run(session, sc)
		if err != nil {
			return err
		}
		logger.Info("script loaded", zap.Stringer("report", report))
	}

	reloads := make(chan *config.Config, 1)
	if path := config.ConfigPath(); path != "" {
		w, err := config.Watch(path, func(c *config.Config) {
			// Keep only the newest config if the loop has not caught up.
			select {
			case <-reloads:
			default:
			}
			reloads <- c
		})
		if err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		windowTitle,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Viewport.Width), int32(cfg.Viewport.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer renderer.Destroy()

	logger.Info("editor started",
		zap.Int("width", cfg.Viewport.Width),
		zap.Int("height", cfg.Viewport.Height))

	in := sdlinput.New()
	title := ""
	for {
		if in.Update() {
			break
		}
		select {
		case c := <-reloads:
			session.ApplyConfig(c)
		default:
		}

		w, h := window.GetSize()
		screen := math.Vec2{X: float32(w), Y: float32(h)}
		session.ProcessFrame(in, screen)

		if err := draw(renderer, session, cache, screen); err != nil {
			logger.Error("draw failed", zap.Error(err))
		}
		renderer.Present()

		if t := windowTitleFor(session); t != title {
			window.SetTitle(t)
			title = t
		}
	}

	if session.Dirty() {
		logger.Warn("closing with unsaved changes", zap.Int("undo", session.History.UndoLen()))
	}
	logger.Info("editor closed")
	return nil
}

func windowTitleFor(s *editor.Session) string {
	t := fmt.Sprintf("%s - %s, %s", windowTitle, s.Tool, s.Selection.Mode)
	if next, ok := s.History.NextUndo(); ok {
		t += " - undo: " + next
	}
	if s.Dirty() {
		t += " *"
	}
	return t
}
