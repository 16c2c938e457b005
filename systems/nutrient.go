package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/slime/components"
)

// NutrientOverlay is a static attractor grid added into sensed intensity.
// It is written once by NewNutrientOverlay and only read afterwards, so
// concurrent agent workers may read it without synchronization.
type NutrientOverlay struct {
	W, H int
	Data []float32

	world  *ecs.World
	zones  *ecs.Map2[components.Position, components.Zone]
	filter *ecs.Filter2[components.Position, components.Zone]
}

// NewNutrientOverlay places p.Nutrients.Count disk zones at random centres
// with radii in [RMin, RMax] and rasterizes them. Returns nil when no zones
// are configured. Zones live as entities in a private ECS world so the viewer
// and tests can enumerate them after rasterization.
func NewNutrientOverlay(p *Params) *NutrientOverlay {
	np := p.Nutrients
	if np.Count == 0 {
		return nil
	}

	world := ecs.NewWorld()
	o := &NutrientOverlay{
		W: p.Width, H: p.Height,
		Data:   make([]float32, p.Cells()),
		world:  world,
		zones:  ecs.NewMap2[components.Position, components.Zone](world),
		filter: ecs.NewFilter2[components.Position, components.Zone](world),
	}

	// Offset the seed so zone placement is independent of agent placement.
	rng := rand.New(rand.NewSource(p.Seed1 ^ 0x5eed))
	for i := 0; i < np.Count; i++ {
		pos := components.Position{
			X: rng.Float32() * p.W32,
			Y: rng.Float32() * p.H32,
		}
		zone := components.Zone{
			Radius:   np.RMin + rng.Float32()*(np.RMax-np.RMin),
			Strength: np.Strength,
		}
		o.zones.NewEntity(&pos, &zone)
	}

	var noise opensimplex.Noise
	if np.NoiseAmplitude > 0 {
		noise = opensimplex.NewNormalized(p.Seed1)
	}
	o.rasterize(noise, np.NoiseAmplitude, np.NoiseScale)
	return o
}

// rasterize stamps every zone disk into Data. Overlapping zones add up.
// With noise set, each cell is scaled by 1 + amp*(2n-1) for normalized
// simplex noise n, clamped at zero.
func (o *NutrientOverlay) rasterize(noise opensimplex.Noise, amp, scale float32) {
	w32, h32 := float32(o.W), float32(o.H)

	query := o.filter.Query()
	for query.Next() {
		pos, zone := query.Get()
		r := zone.Radius
		r2 := r * r

		x0 := floorInt(pos.X - r)
		x1 := floorInt(pos.X + r)
		y0 := floorInt(pos.Y - r)
		y1 := floorInt(pos.Y + r)
		// A disk wider than the grid must not visit a cell twice.
		if x1-x0 >= o.W {
			x1 = x0 + o.W - 1
		}
		if y1-y0 >= o.H {
			y1 = y0 + o.H - 1
		}
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				// Distance from the cell centre, shortest way around the torus.
				dx := toroidalDelta(float32(cx)+0.5, pos.X, w32)
				dy := toroidalDelta(float32(cy)+0.5, pos.Y, h32)
				if dx*dx+dy*dy > r2 {
					continue
				}
				i := modInt(cy, o.H)*o.W + modInt(cx, o.W)
				o.Data[i] += zone.Strength
			}
		}
	}

	if noise == nil {
		return
	}
	for y := 0; y < o.H; y++ {
		for x := 0; x < o.W; x++ {
			i := y*o.W + x
			if o.Data[i] == 0 {
				continue
			}
			n := float32(noise.Eval2(float64(x)*float64(scale), float64(y)*float64(scale)))
			o.Data[i] = float32(math.Max(0, float64(o.Data[i]*(1+amp*(2*n-1)))))
		}
	}
}

// ZoneInfo describes a placed zone.
type ZoneInfo struct {
	X, Y, Radius, Strength float32
}

// Zones returns every placed zone.
func (o *NutrientOverlay) Zones() []ZoneInfo {
	if o == nil {
		return nil
	}
	var out []ZoneInfo
	query := o.filter.Query()
	for query.Next() {
		pos, zone := query.Get()
		out = append(out, ZoneInfo{X: pos.X, Y: pos.Y, Radius: zone.Radius, Strength: zone.Strength})
	}
	return out
}

// At returns the overlay value at cell (x, y).
func (o *NutrientOverlay) At(x, y int) float32 {
	if o == nil {
		return 0
	}
	return o.Data[modInt(y, o.H)*o.W+modInt(x, o.W)]
}
