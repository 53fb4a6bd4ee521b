package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"

	"particle-sandbox/internal/physics"
)

var (
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGround = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleSurf   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBall   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleFixed  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGun    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleCursor = tcell.StyleDefault.Foreground(tcell.ColorPurple)
)

func (a *app) draw() {
	a.screen.Clear()
	world := a.sb.World()
	a.drawPlanes(world)
	world.EachSphere(func(_ physics.Handle, s *physics.Sphere) {
		a.drawSphere(s)
	})
	a.drawGun()
	if a.buttons&(tcell.ButtonPrimary|tcell.ButtonSecondary) != 0 {
		a.screen.SetContent(a.mouseX, a.mouseY, '+', nil, styleCursor)
	}
	a.drawHUD()
	a.screen.Show()
}

// drawPlanes shades every cell behind a plane and marks the cells it passes through.
func (a *app) drawPlanes(world *physics.World) {
	half := a.view.cellSize() / 2
	world.EachPlane(func(_ physics.Handle, p *physics.Plane) {
		for y := 0; y < a.view.Height; y++ {
			for x := 0; x < a.view.Width; x++ {
				d := p.SignedDistance(a.view.unproject(x, y))
				switch {
				case math32.Abs(d) <= half:
					a.screen.SetContent(x, y, '▀', nil, styleSurf)
				case d < 0:
					a.screen.SetContent(x, y, '░', nil, styleGround)
				}
			}
		}
	})
}

func (a *app) drawSphere(s *physics.Sphere) {
	style := styleBall
	if s.Body.Static() {
		style = styleFixed
	}
	c := s.Center()
	cx, cy, _ := a.view.project(c)
	r := s.Radius()
	ry := int(math32.Ceil(r * a.view.Scale))
	rx := ry * cellAspect
	filled := false
	for y := cy - ry; y <= cy+ry; y++ {
		for x := cx - rx; x <= cx+rx; x++ {
			if x < 0 || y < 0 || x >= a.view.Width || y >= a.view.Height {
				continue
			}
			p := a.view.unproject(x, y)
			p[2] = c.Z()
			if p.Sub(c).Len() <= r {
				a.screen.SetContent(x, y, '●', nil, style)
				filled = true
			}
		}
	}
	if !filled {
		if x, y, ok := a.view.project(c); ok {
			a.screen.SetContent(x, y, '•', nil, style)
		}
	}
}

func (a *app) drawGun() {
	gun := a.sb.Gun()
	from, to := gun.Position(), gun.Muzzle()
	steps := int(math32.Ceil(to.Sub(from).Len()*a.view.Scale*cellAspect)) + 1
	for i := 0; i <= steps; i++ {
		p := from.Add(to.Sub(from).Mul(float32(i) / float32(steps)))
		if x, y, ok := a.view.project(p); ok {
			a.screen.SetContent(x, y, '█', nil, styleGun)
		}
	}
}

func (a *app) drawHUD() {
	st := a.sb.Stats()
	gun := a.sb.Gun()
	state := "running"
	if a.sb.Paused() {
		state = "paused"
	}
	line := fmt.Sprintf(" %s | weapon %s | angle %.0f° | bodies %d | contacts %d | tick %d ",
		state, gun.Weapon(), gun.Angle()*180/math32.Pi, st.Bodies, st.Contacts, st.Ticks)
	a.text(0, 0, line, styleHUD.Reverse(true))
	a.text(0, a.view.Height-1, " 1/2 aim  w weapon  space fire  p pause  n step  r reset  +/- zoom  q quit ", styleHUD)
}

func (a *app) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= a.view.Width {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
