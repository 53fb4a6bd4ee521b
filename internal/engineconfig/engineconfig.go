package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"particle-sandbox/internal/physics"
)

// ConfigPath is the sandbox config file, relative to the process working directory.
const ConfigPath = "config/sandbox.yaml"

// Config is everything the sandbox hosts read at startup. Persisted across runs.
type Config struct {
	Physics Physics `yaml:"physics"`
	Gun     Gun     `yaml:"gun"`
	Engine  Engine  `yaml:"engine"`
}

// Physics configures the world.
type Physics struct {
	// Timestep is the fixed dt, in seconds, passed to every World.Step.
	Timestep float32    `yaml:"timestep"`
	Gravity  mgl32.Vec3 `yaml:"gravity"`
	// Damping is the per-second velocity retention of spawned bodies, in (0, 1].
	Damping float32 `yaml:"damping"`
	Planes  []Plane `yaml:"planes"`
}

// Plane is a static plane: points P with dot(P, Normal) == Offset.
type Plane struct {
	Normal mgl32.Vec3 `yaml:"normal"`
	Offset float32    `yaml:"offset"`
}

// Gun configures the projectile launcher.
type Gun struct {
	MuzzleSpeed           float32       `yaml:"muzzle_speed"`
	ProjectileRadius      float32       `yaml:"projectile_radius"`
	ProjectileInverseMass float32       `yaml:"projectile_inverse_mass"`
	Lifetime              time.Duration `yaml:"lifetime"`
	SpringConstant        float32       `yaml:"spring_constant"`
	RestLength            float32       `yaml:"rest_length"`
	AttractorPower        float32       `yaml:"attractor_power"`
}

// Engine holds host-only preferences (debug overlays, grid, sound, UI font).
// Font is a family name or partial path searched under assets/fonts; empty keeps the
// raylib default font.
type Engine struct {
	ShowFPS      bool   `yaml:"show_fps"`
	ShowMemAlloc bool   `yaml:"show_memalloc"`
	ShowStats    bool   `yaml:"show_stats"`
	GridVisible  bool   `yaml:"grid_visible"`
	Audio        bool   `yaml:"audio"`
	Font         string `yaml:"font"`
}

// Default returns the stock configuration: 60 Hz, earth gravity, a ground plane.
func Default() Config {
	return Config{
		Physics: Physics{
			Timestep: 1.0 / 60,
			Gravity:  mgl32.Vec3{0, -9.81, 0},
			Damping:  0.99,
			Planes: []Plane{
				{Normal: mgl32.Vec3{0, 1, 0}, Offset: 0},
			},
		},
		Gun: Gun{
			MuzzleSpeed:           12,
			ProjectileRadius:      0.5,
			ProjectileInverseMass: 1,
			Lifetime:              8 * time.Second,
			SpringConstant:        20,
			RestLength:            2,
			AttractorPower:        60,
		},
		Engine: Engine{
			GridVisible: true,
			Audio:       true,
		},
	}
}

// Load reads the config at path on top of Default(), so keys missing from the file keep
// their defaults. A missing file is not an error. A file that does not parse or does not
// validate is, and Default() is returned with it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	// Unmarshal replaces slices, so a file listing planes overrides the default ground.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values the physics layer would reject, reporting them with the
// physics sentinel errors so callers can use errors.Is.
func (c Config) Validate() error {
	p := c.Physics
	if !(p.Timestep > 0) {
		return fmt.Errorf("physics.timestep %v: %w", p.Timestep, physics.ErrInvalidTimestep)
	}
	if !(p.Damping > 0 && p.Damping <= 1) {
		return fmt.Errorf("physics.damping %v: %w", p.Damping, physics.ErrInvalidDamping)
	}
	for i, pl := range p.Planes {
		if pl.Normal.Len() == 0 {
			return fmt.Errorf("physics.planes[%d]: %w", i, physics.ErrDegenerateNormal)
		}
	}

	g := c.Gun
	if !(g.ProjectileRadius > 0) {
		return fmt.Errorf("gun.projectile_radius %v: %w", g.ProjectileRadius, physics.ErrInvalidRadius)
	}
	if g.ProjectileInverseMass < 0 {
		return fmt.Errorf("gun.projectile_inverse_mass %v: %w", g.ProjectileInverseMass, physics.ErrInvalidInverseMass)
	}
	if g.SpringConstant < 0 || g.RestLength < 0 {
		return fmt.Errorf("gun spring k=%v rest=%v: %w", g.SpringConstant, g.RestLength, physics.ErrInvalidSpring)
	}
	if g.Lifetime < 0 {
		return fmt.Errorf("gun.lifetime %v is negative", g.Lifetime)
	}
	return nil
}

// Clone returns a deep copy; the planes slice is not shared.
func (c Config) Clone() Config {
	var out Config
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		// Only reachable with mismatched types, which Config cannot have.
		panic(err)
	}
	return out
}
