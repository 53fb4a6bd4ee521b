// Command termsim runs the particle sandbox in a terminal, drawing the z=0 slice of the
// world with tcell.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"

	"particle-sandbox/internal/audio"
	"particle-sandbox/internal/engineconfig"
	"particle-sandbox/internal/env"
	"particle-sandbox/internal/logger"
	"particle-sandbox/internal/physics"
	"particle-sandbox/internal/sandbox"
)

// rotateStep is how far one press of 1 or 2 turns the gun, in radians.
const rotateStep = mgl32.Pi / 36

type app struct {
	screen tcell.Screen
	sb     *sandbox.Sandbox
	log    *logger.Logger
	view   view

	mouseX, mouseY int
	buttons        tcell.ButtonMask
}

func main() {
	if _, err := env.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "env: %v\n", err)
	}
	log := logger.New()
	defer log.Close()

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Warnf("sentry: %v", err)
		} else {
			defer sentry.Flush(5 * time.Second)
		}
	}

	cfg, err := engineconfig.Load(engineconfig.ConfigPath)
	if err != nil {
		log.Errorf("config: %v (using defaults)", err)
	}

	a, err := newApp(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			a.screen.Fini()
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("host", "termsim")
			})
			hub.Recover(r)
			hub.Flush(5 * time.Second)
			panic(r)
		}
	}()

	if cfg.Engine.Audio {
		blips := audio.NewBlipper()
		if err := blips.Initialize(); err != nil {
			log.Warnf("audio disabled: %v", err)
		} else {
			defer blips.Cleanup()
			a.sb.OnContact(blips.OnContact)
		}
	}

	a.run()
}

func newApp(cfg engineconfig.Config, log *logger.Logger) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)

	a := &app{screen: screen, log: log}
	a.view = newView(screen.Size())

	a.sb, err = sandbox.New(cfg,
		sandbox.WithLogger(log),
		sandbox.WithTarget(physics.AnchorFunc(a.mouseTarget)),
		sandbox.WithTriggers(
			func() bool { return a.buttons&tcell.ButtonPrimary != 0 },
			func() bool { return a.buttons&tcell.ButtonSecondary != 0 },
		),
	)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return a, nil
}

func (a *app) mouseTarget() (mgl32.Vec3, bool) {
	return a.view.unproject(a.mouseX, a.mouseY), true
}

func (a *app) run() {
	ticker := time.NewTicker(a.sb.TimestepDuration())
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			if _, err := a.sb.FixedUpdate(); err != nil {
				a.log.Error(err.Error())
			}
			a.draw()
		}
	}
}

func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.view.pan(-2, 0)
		case tcell.KeyRight:
			a.view.pan(2, 0)
		case tcell.KeyUp:
			a.view.pan(0, 1)
		case tcell.KeyDown:
			a.view.pan(0, -1)
		case tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}
	case *tcell.EventMouse:
		a.mouseX, a.mouseY = ev.Position()
		a.buttons = ev.Buttons()
		switch {
		case a.buttons&tcell.WheelUp != 0:
			a.view.zoom(1.1)
		case a.buttons&tcell.WheelDown != 0:
			a.view.zoom(1 / 1.1)
		}
	case *tcell.EventResize:
		a.view.Width, a.view.Height = a.screen.Size()
		a.screen.Sync()
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	gun := a.sb.Gun()
	switch r {
	case 'q', 'Q':
		return false
	case '1':
		gun.Rotate(rotateStep)
	case '2':
		gun.Rotate(-rotateStep)
	case 'w':
		gun.CycleNext()
	case ' ':
		if _, err := gun.Fire(); err != nil {
			a.log.Warn(err.Error())
		}
	case 'p':
		if a.sb.Paused() {
			a.sb.Resume()
		} else {
			a.sb.Pause()
		}
	case 'n':
		a.sb.StepOnce(1)
	case 'r':
		if err := a.sb.Reset(); err != nil {
			a.log.Error(err.Error())
		}
	case '+':
		a.view.zoom(1.25)
	case '-':
		a.view.zoom(0.8)
	}
	return true
}
