package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"particle-sandbox/internal/commands"
	"particle-sandbox/internal/logger"
)

const (
	BarHeight = 40
	// When windowed, move bar up by this many pixels so it stays visible (avoids being cut off by taskbar/window bounds).
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	maxLinesOnScreen  = 14
	lineHeight        = fontSize + 4
	maxLineLen        = 200
)

var (
	barColor    = rl.NewColor(40, 40, 40, 255)
	borderColor = rl.NewColor(80, 80, 80, 255)
	historyBg   = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the console bar at the bottom of the screen, toggled with ESC. While open it
// captures the keyboard; every submitted line is run through the command registry and
// both the line and any error end up in the log history drawn above the bar.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	history  *commands.History
	inputBuf string
	open     bool
	font     rl.Font
}

// New returns a closed Terminal.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg, history: commands.NewHistory(0)}
}

// IsOpen reports whether the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the font used to draw the terminal. Zero texture ID = raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Update handles ESC (toggle), and when open: typing, paste, history recall, backspace
// and enter. Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyV) {
		t.inputBuf += rl.GetClipboardText()
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.inputBuf += string(rune(c))
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		if line, ok := t.history.Prev(); ok {
			t.inputBuf = line
		}
	case rl.IsKeyPressed(rl.KeyDown):
		line, _ := t.history.Next()
		t.inputBuf = line
	case rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0:
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	case (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.inputBuf != "":
		t.submit()
	}
}

func (t *Terminal) submit() {
	line := t.inputBuf
	t.inputBuf = ""
	t.history.Add(line)
	t.log.Log(prompt + line)
	if err := t.reg.ExecuteLine(line); err != nil {
		t.log.Error(err.Error())
	}
}

// Draw draws the bar and the most recent log lines above it when open.
// Uses GetScreenWidth/GetScreenHeight so the bar matches the 2D overlay coordinate system.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	historyH := int32(maxLinesOnScreen * lineHeight)
	historyY := barY - historyH
	if historyY < 0 {
		historyH, historyY = barY, 0
	}
	if historyH > 0 {
		rl.DrawRectangle(0, historyY, screenW, historyH, historyBg)
	}
	lines := t.log.Lines()
	if len(lines) > maxLinesOnScreen {
		lines = lines[len(lines)-maxLinesOnScreen:]
	}
	for i, line := range lines {
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		t.text(line, padding, historyY+int32(i*lineHeight)+padding, rl.LightGray)
	}

	rl.DrawRectangle(0, barY, screenW, BarHeight, barColor)
	rl.DrawRectangle(0, barY, screenW, 1, borderColor)
	t.text(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int32, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(s, x, y, fontSize, c)
}
