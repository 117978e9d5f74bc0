package noise

import (
	"context"
	"errors"
	"math"
	"testing"

	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/settings"
)

func testParams() settings.FieldParams {
	return settings.FieldParams{Seed: 1234, Res1: 3.1, Res2: 4.4, ResMix: 0.35, MixScale: 0.8}
}

func TestRenderDeterministic(t *testing.T) {
	p := testParams()
	a, err := New(p).Render(context.Background(), 64)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, _ := New(p).Render(context.Background(), 64)
	for _, f := range cube.Faces {
		if !a[f].Equal(b[f]) {
			t.Fatalf("face %s differs between identical runs", f)
		}
	}

	p.Seed++
	c, _ := New(p).Render(context.Background(), 64)
	if a[cube.PosX].Equal(c[cube.PosX]) {
		t.Fatal("different seeds produced identical fields")
	}
}

func TestRenderRange(t *testing.T) {
	for _, ridged := range []bool{false, true} {
		p := testParams()
		p.Ridged = ridged
		p.MixScale = 1
		fields, err := New(p).Render(context.Background(), 64)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		for _, f := range cube.Faces {
			lo, hi := fields[f].Range()
			if lo < 0 || hi > 1 {
				t.Fatalf("ridged=%v face %s range [%v, %v] outside [0,1]", ridged, f, lo, hi)
			}
			if hi-lo < 0.05 {
				t.Fatalf("ridged=%v face %s nearly constant [%v, %v]", ridged, f, lo, hi)
			}
		}
	}
}

func TestRidgedChangesField(t *testing.T) {
	p := testParams()
	smooth, _ := New(p).Render(context.Background(), 64)
	p.Ridged = true
	ridged, _ := New(p).Render(context.Background(), 64)
	if smooth[cube.PosZ].Equal(ridged[cube.PosZ]) {
		t.Fatal("ridged flag had no effect")
	}
}

func TestSeamContinuity(t *testing.T) {
	const res = 128
	fields, err := New(testParams()).Render(context.Background(), res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	checked := 0
	for _, f := range cube.Faces {
		for i := 0; i < res; i++ {
			for _, xy := range [][2]int{{i, 0}, {i, res - 1}, {0, i}, {res - 1, i}} {
				dir := f.TexelDirection(res, xy[0], xy[1])
				for _, other := range cube.Faces {
					if other == f {
						continue
					}
					u, v, ok := other.Project(dir)
					if !ok || math.Abs(u) > 1+1e-9 || math.Abs(v) > 1+1e-9 {
						continue
					}
					ox, oy := cube.UVTexel(res, u, v)
					a := fields[f].At(xy[0], xy[1])
					b := fields[other].At(ox, oy)
					if d := math.Abs(float64(a - b)); d > 1e-5 {
						t.Fatalf("seam between %s%v and %s(%d,%d): %v vs %v", f, xy, other, ox, oy, a, b)
					}
					checked++
				}
			}
		}
	}
	if checked == 0 {
		t.Fatal("no shared edge texels checked")
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testParams()).Render(ctx, core.Resolution(64))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render on canceled context = %v", err)
	}
}

func TestRidgedNotSaturated(t *testing.T) {
	for _, seed := range []int64{1234, 77, -9001} {
		p := testParams()
		p.Seed = seed
		p.Ridged = true
		p.MixScale = 1
		fields, err := New(p).Render(context.Background(), 64)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		var clamped, total int
		var sum float64
		for _, f := range cube.Faces {
			for _, v := range fields[f].Values() {
				if v <= 0 || v >= 1 {
					clamped++
				}
				sum += float64(v)
				total++
			}
		}
		if share := float64(clamped) / float64(total); share > 0.02 {
			t.Errorf("seed %d: %.1f%% of ridged texels clamped", seed, share*100)
		}
		if mean := sum / float64(total); math.Abs(mean-0.5) > 0.1 {
			t.Errorf("seed %d: ridged mean %.3f not centred", seed, mean)
		}
	}
}
