package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"particle-sandbox/internal/physics"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws runtime overlays in the top-right corner. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool

	stats      func() physics.Stats
	paused     func() bool
	font       rl.Font
	frameCount uint32
	lines      []string
	memStats   runtime.MemStats
}

// New returns a Debug with every overlay hidden.
func New() *Debug {
	return &Debug{}
}

// SetFont sets the overlay font. Zero texture ID = raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// SetSimulation sets where the stats overlay reads the world counters and pause state from.
func (d *Debug) SetSimulation(stats func() physics.Stats, paused func() bool) {
	d.stats, d.paused = stats, paused
}

// Draw renders the enabled overlays. Call after the scene and terminal.
func (d *Debug) Draw() {
	d.frameCount++
	if d.frameCount%updateInterval == 0 || len(d.lines) == 0 {
		d.refresh()
	}

	screenW := float32(rl.GetScreenWidth())
	y := float32(padding)
	for _, text := range d.lines {
		if d.font.Texture.ID != 0 {
			w := rl.MeasureTextEx(d.font, text, fontSize, 1).X
			rl.DrawTextEx(d.font, text, rl.NewVector2(screenW-w-padding, y), fontSize, 1, rl.Green)
		} else {
			w := float32(rl.MeasureText(text, fontSize))
			rl.DrawText(text, int32(screenW-w-padding), int32(y), fontSize, rl.Green)
		}
		y += lineHeight
	}
}

func (d *Debug) refresh() {
	d.lines = d.lines[:0]
	if d.ShowFPS {
		d.lines = append(d.lines, fmt.Sprintf("FPS: %d", rl.GetFPS()))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		d.lines = append(d.lines, fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024)))
	}
	if d.ShowStats && d.stats != nil {
		st := d.stats()
		d.lines = append(d.lines,
			fmt.Sprintf("Tick: %d", st.Ticks),
			fmt.Sprintf("Spheres: %d  Planes: %d", st.Spheres, st.Planes),
			fmt.Sprintf("Pairs: %d  Contacts: %d", st.PairsTested, st.Contacts),
		)
		if d.paused != nil && d.paused() {
			d.lines = append(d.lines, "PAUSED")
		}
	}
}
