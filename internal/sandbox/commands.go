package sandbox

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"particle-sandbox/internal/arsenal"
	"particle-sandbox/internal/commands"
)

// RegisterCommands adds the sandbox console commands to r. Output lines go to out.
func RegisterCommands(r *commands.Registry, s *Sandbox, out func(string)) {
	r.Register("help", "list commands", nil, func(args []string) error {
		if len(args) > 0 {
			c, ok := r.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", commands.ErrUnknownCommand, args[0])
			}
			for _, line := range strings.Split(c.Usage(), "\n") {
				out(line)
			}
			return nil
		}
		for _, line := range r.Help() {
			out(line)
		}
		return nil
	})

	r.Register("gravity", "show or set gravity: gravity [x y z]", nil, func(args []string) error {
		if len(args) == 0 {
			out(fmt.Sprintf("gravity %s", formatVec(s.Gravity())))
			return nil
		}
		g, err := parseVec3(args)
		if err != nil {
			return err
		}
		s.SetGravity(g)
		out(fmt.Sprintf("gravity %s", formatVec(g)))
		return nil
	})

	spawnFS := flag.NewFlagSet("spawn", flag.ContinueOnError)
	radius := spawnFS.Float64("r", 0.5, "radius")
	inverseMass := spawnFS.Float64("inv", 1, "inverse mass (0 = immovable)")
	velocity := spawnFS.String("v", "0,0,0", "velocity x,y,z")
	r.Register("spawn", "spawn a sphere: spawn [-r radius] [-inv m] [-v x,y,z] x y z", spawnFS, func(args []string) error {
		pos, err := parseVec3(args)
		if err != nil {
			return err
		}
		vel, err := parseVec3(strings.Split(*velocity, ","))
		if err != nil {
			return fmt.Errorf("-v: %w", err)
		}
		h, err := s.Spawn(pos, vel, float32(*radius), float32(*inverseMass))
		if err != nil {
			return err
		}
		out(fmt.Sprintf("spawned sphere %d at %s", h, formatVec(pos)))
		return nil
	})

	r.Register("fire", "fire the selected weapon", nil, func([]string) error {
		shot, err := s.Gun().Fire()
		if err != nil {
			return err
		}
		out(fmt.Sprintf("fired %s (%d bodies)", shot.Weapon, len(shot.Handles)))
		return nil
	})

	r.Register("weapon", "cycle or select the weapon: weapon [name]", nil, func(args []string) error {
		g := s.Gun()
		if len(args) == 0 {
			g.CycleNext()
		} else {
			w, err := arsenal.ParseWeapon(args[0])
			if err != nil {
				return err
			}
			if err := g.Select(w); err != nil {
				return err
			}
		}
		out("weapon " + g.Weapon().String())
		return nil
	})

	r.Register("pause", "pause the simulation", nil, func([]string) error {
		s.Pause()
		out("paused")
		return nil
	})

	r.Register("resume", "resume the simulation", nil, func([]string) error {
		s.Resume()
		out("resumed")
		return nil
	})

	r.Register("step", "pause and advance n ticks: step [n]", nil, func(args []string) error {
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("step: invalid count %q", args[0])
			}
			n = v
		}
		s.StepOnce(n)
		out(fmt.Sprintf("stepping %d", n))
		return nil
	})

	r.Register("reset", "remove every body and rebuild the world", nil, func([]string) error {
		if err := s.Reset(); err != nil {
			return err
		}
		out("reset")
		return nil
	})

	r.Register("stats", "show simulation counters", nil, func([]string) error {
		st := s.Stats()
		out(fmt.Sprintf("ticks %d bodies %d spheres %d planes %d pairs %d contacts %d",
			st.Ticks, st.Bodies, st.Spheres, st.Planes, st.PairsTested, st.Contacts))
		return nil
	})
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	if len(args) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("want 3 components, got %d", len(args))
	}
	var v mgl32.Vec3
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func formatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
