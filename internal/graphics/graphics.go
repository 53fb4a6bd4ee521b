package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window configures Run. Zero Width/Height with Fullscreen uses the monitor size.
type Window struct {
	Title      string
	Width      int32
	Height     int32
	Fullscreen bool
	TargetFPS  int32
	// OnInit runs once after the window and GL context exist, before the first frame.
	OnInit func()
	// OnClose runs after the last frame, while GPU resources can still be released.
	OnClose func()
}

// Run opens the window and runs the main loop until it is closed. Each frame it calls
// update with the frame time in seconds (input and fixed-step simulation), then clears
// the screen and calls draw. ESC belongs to the terminal, not to quitting.
func Run(win Window, update func(dt float32), draw func()) {
	if win.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode | rl.FlagMsaa4xHint)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	w, h := win.Width, win.Height
	if w == 0 || h == 0 {
		w, h = 1280, 720
	}
	rl.InitWindow(w, h, win.Title)
	defer rl.CloseWindow()
	if win.Fullscreen && (win.Width == 0 || win.Height == 0) {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
	}

	rl.SetExitKey(rl.KeyNull)
	fps := win.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)
	if win.OnInit != nil {
		win.OnInit()
	}
	if win.OnClose != nil {
		defer win.OnClose()
	}

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}
