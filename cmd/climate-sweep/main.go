package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"procplanet/internal/core"
	"procplanet/internal/pipeline"
	"procplanet/internal/seed"
	"procplanet/internal/settings"
	"procplanet/internal/stages"
)

type paramSet struct {
	seed       string
	iceCutoff  float64
	iciness    float64
	waterLevel float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("seed=%q cutoff=%.2f iciness=%.2f water=%.2f", p.seed, p.iceCutoff, p.iciness, p.waterLevel)
}

func (p paramSet) overrides() settings.Overrides {
	return settings.Overrides{
		IceCutoff:   settings.Float(p.iceCutoff),
		WaterLevel:  settings.Float(p.waterLevel),
		Temperature: settings.TemperatureOverride{Iciness: settings.Float(p.iciness)},
	}
}

type scenarioResult struct {
	params   paramSet
	ice      float64
	ocean    float64
	meanTemp float64
	err      error
}

func main() {
	seeds := flag.String("seeds", "Scarlett,Thalassa,Deep Harbor", "comma-separated seeds")
	res := flag.Int("res", 64, "face resolution per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "scenarios to list, ranked by ice fraction")
	flag.Parse()

	resolution := core.Resolution(*res)
	if err := resolution.Validate(); err != nil {
		log.Fatal(err)
	}

	cutoffOptions := []float64{0.1, 0.2, 0.3, 0.5}
	icinessOptions := []float64{0, 0.1, 0.2}
	waterOptions := []float64{0.35, 0.45, 0.55}

	var sets []paramSet
	for _, s := range strings.Split(*seeds, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		for _, cutoff := range cutoffOptions {
			for _, iciness := range icinessOptions {
				for _, water := range waterOptions {
					sets = append(sets, paramSet{seed: s, iceCutoff: cutoff, iciness: iciness, waterLevel: water})
				}
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, res %d)\n", len(sets), *workers, *res)

	deriver := seed.NewDeriver(nil, nil)
	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := pipeline.New(pipeline.Options{Deriver: deriver})
			for params := range jobs {
				results <- runScenario(p, params, resolution)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for r := range results {
		if r.err != nil {
			fmt.Printf("Scenario %s failed: %v\n", r.params, r.err)
			continue
		}
		all = append(all, r)
	}
	elapsed := time.Since(start)

	violations := checkMonotonic(all)
	for _, v := range violations {
		fmt.Println(v)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ice > all[j].ice })
	fmt.Printf("\nTop %d results by ice fraction (elapsed %s):\n", *top, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		r := all[i]
		fmt.Printf("%2d) ice=%.4f ocean=%.4f meanTemp=%.3f %s\n", i+1, r.ice, r.ocean, r.meanTemp, r.params)
	}
	fmt.Printf("\nMonotonicity violations: %d\n", len(violations))
}

func runScenario(p *pipeline.Pipeline, params paramSet, res core.Resolution) scenarioResult {
	pass, err := p.Regenerate(context.Background(), pipeline.Request{
		Seed:       params.seed,
		Resolution: res,
		Overrides:  params.overrides(),
	})
	if err != nil {
		return scenarioResult{params: params, err: err}
	}

	var ocean, total int
	var tempSum float64
	for face := range pass.Height {
		temps := pass.Temperature[face].Values()
		for i, h := range pass.Height[face].Values() {
			total++
			if float64(h) < pass.Settings.WaterLevel {
				ocean++
			}
			tempSum += float64(temps[i])
		}
	}
	return scenarioResult{
		params:   params,
		ice:      stages.IceFraction(pass.Albedo),
		ocean:    float64(ocean) / float64(total),
		meanTemp: tempSum / float64(total),
	}
}

// checkMonotonic reports scenarios where raising the ice cutoff lowered the
// ice fraction with everything else fixed.
func checkMonotonic(all []scenarioResult) []string {
	type key struct {
		seed           string
		iciness, water float64
	}
	groups := map[key][]scenarioResult{}
	for _, r := range all {
		k := key{r.params.seed, r.params.iciness, r.params.waterLevel}
		groups[k] = append(groups[k], r)
	}
	var out []string
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].params.iceCutoff < g[j].params.iceCutoff })
		for i := 1; i < len(g); i++ {
			if g[i].ice < g[i-1].ice {
				out = append(out, fmt.Sprintf("Ice fell from %.4f to %.4f raising cutoff: %s", g[i-1].ice, g[i].ice, g[i].params))
			}
		}
	}
	sort.Strings(out)
	return out
}
