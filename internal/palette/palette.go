// Package palette assigns stable, visually distinct colors to category names.
package palette

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Veraticus/cashflow/internal/common"
)

const (
	// smallSetLimit is the largest set that gets evenly spaced hues at a
	// single saturation/lightness.
	smallSetLimit = 12

	baseSaturation = 0.65
	baseLightness  = 0.55

	// collisionHueStep is the hue shift applied on every collision retry.
	collisionHueStep = 25.0
	maxRetries       = 8
)

// AssignColors maps every distinct name to a hex color ("#rrggbb"). Names
// are sorted before assignment so the same set always yields the same
// colors, and no two names in one call share a color.
func AssignColors(names []string) map[string]string {
	unique := dedupe(names)
	total := len(unique)
	colors := make(map[string]string, total)
	if total == 0 {
		return colors
	}

	groups := 1
	if total > smallSetLimit {
		groups = int(math.Ceil(math.Sqrt(float64(total))))
	}

	used := make(map[string]bool, total)
	for i, name := range unique {
		hue := float64(i) * 360.0 / float64(total)
		sat, light := groupTone(i%groups, groups)

		hex := colorful.Hsl(hue, sat, light).Hex()
		if used[hex] {
			hex = resolveCollision(name, hue, sat, light, used)
		}

		used[hex] = true
		colors[name] = hex
	}

	return colors
}

// groupTone returns the saturation and lightness used by one group. A
// single group uses the base tone.
func groupTone(group, groups int) (float64, float64) {
	if groups <= 1 {
		return baseSaturation, baseLightness
	}
	frac := float64(group) / float64(groups-1)
	sat := 0.50 + 0.40*frac
	// alternate light and dark groups so neighbours differ in lightness too
	light := 0.38 + 0.30*float64((group*2)%groups)/float64(groups)
	return sat, light
}

// resolveCollision perturbs the hue by a fixed step and derives a new
// tone from the name's hash until the color is unused. The final sweep
// walks hue one degree at a time, which always terminates for realistic
// set sizes.
func resolveCollision(name string, hue, sat, light float64, used map[string]bool) string {
	h := common.HashString(name)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		hue = math.Mod(hue+collisionHueStep, 360)
		sat = 0.45 + float64((h>>uint(attempt))%40)/100
		light = 0.35 + float64((h/7+uint32(attempt))%30)/100

		hex := colorful.Hsl(hue, sat, light).Hex()
		if !used[hex] {
			return hex
		}
	}

	for step := 1; ; step++ {
		l := math.Min(0.9, light+0.01*float64(step/360))
		hex := colorful.Hsl(math.Mod(hue+float64(step), 360), sat, l).Hex()
		if !used[hex] {
			return hex
		}
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	sort.Strings(unique)
	return unique
}
