package main

import (
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"particle-sandbox/internal/audio"
	"particle-sandbox/internal/commands"
	"particle-sandbox/internal/debug"
	"particle-sandbox/internal/engineconfig"
	"particle-sandbox/internal/env"
	"particle-sandbox/internal/fonts"
	"particle-sandbox/internal/graphics"
	"particle-sandbox/internal/logger"
	"particle-sandbox/internal/sandbox"
	"particle-sandbox/internal/scene"
	"particle-sandbox/internal/terminal"
)

func main() {
	applied, envErr := env.Load(".env")

	log := logger.New()
	defer log.Close()
	if envErr != nil {
		log.Warnf("env: %v", envErr)
	}
	if len(applied) > 0 {
		log.WithField("keys", applied).Debug("env: loaded .env")
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Warnf("sentry: %v", err)
		} else {
			defer sentry.Flush(5 * time.Second)
			defer sentry.Recover()
		}
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	cfg, err := engineconfig.Load(engineconfig.ConfigPath)
	if err != nil {
		log.Errorf("config: %v (using defaults)", err)
	}

	scn := scene.New()
	scn.SetGridVisible(cfg.Engine.GridVisible)
	in := newInput()

	sb, err := sandbox.New(cfg,
		sandbox.WithLogger(log),
		sandbox.WithTarget(scn.MouseTarget()),
		sandbox.WithTriggers(in.attracting, in.repelling),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	blips := audio.NewBlipper()
	if cfg.Engine.Audio {
		if err := blips.Initialize(); err != nil {
			log.Warnf("audio disabled: %v", err)
		} else {
			defer blips.Cleanup()
			sb.OnContact(blips.OnContact)
		}
	}

	reg := commands.NewRegistry()
	sandbox.RegisterCommands(reg, sb, log.Log)
	term := terminal.New(log, reg)

	dbg := debug.New()
	dbg.ShowFPS = cfg.Engine.ShowFPS
	dbg.ShowMemAlloc = cfg.Engine.ShowMemAlloc
	dbg.ShowStats = cfg.Engine.ShowStats
	dbg.SetSimulation(sb.Stats, sb.Paused)

	clock := sandbox.NewClock(sb.Timestep(), 0)
	log.Info("sandbox: started, ESC opens the console, type help")

	update := func(dt float32) {
		term.Update()
		playing := !term.IsOpen()
		scn.Update(dt, playing)
		in.update(sb, dt, playing)
		if _, err := sb.Advance(clock, dt); err != nil {
			log.Error(err.Error())
		}
	}
	draw := func() {
		scn.Draw(sb.World(), sb.Gun(), in.attracting() || in.repelling())
		term.Draw()
		dbg.Draw()
	}
	var font rl.Font
	loadFont := func() {
		if cfg.Engine.Font == "" {
			return
		}
		path, err := fonts.Find(cfg.Engine.Font)
		if err != nil {
			log.Warnf("font: %v", err)
			return
		}
		font = rl.LoadFont(path)
		if font.Texture.ID == 0 {
			log.Warnf("font: cannot load %s", path)
			return
		}
		term.SetFont(font)
		dbg.SetFont(font)
		log.WithField("path", path).Info("font: loaded")
	}
	unload := func() {
		if font.Texture.ID != 0 {
			rl.UnloadFont(font)
		}
		scn.Unload()
	}
	graphics.Run(graphics.Window{Title: "particle sandbox", OnInit: loadFont, OnClose: unload}, update, draw)
}
