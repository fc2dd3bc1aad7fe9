package palette

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Category %02d", i)
	}
	return out
}

func assertDistinct(t *testing.T, colors map[string]string) {
	t.Helper()
	seen := make(map[string]string, len(colors))
	for name, hex := range colors {
		assert.Regexp(t, hexPattern, hex)
		if other, ok := seen[hex]; ok {
			t.Errorf("color %s assigned to both %q and %q", hex, other, name)
		}
		seen[hex] = name
	}
}

func TestAssignColors_Empty(t *testing.T) {
	assert.Empty(t, AssignColors(nil))
}

func TestAssignColors_Deduplicates(t *testing.T) {
	colors := AssignColors([]string{"Mercado", "Lazer", "Mercado"})
	assert.Len(t, colors, 2)
	assertDistinct(t, colors)
}

func TestAssignColors_SmallSetEvenHues(t *testing.T) {
	colors := AssignColors([]string{"B", "A"})
	require.Len(t, colors, 2)
	// sorted order: A gets hue 0, B gets hue 180 at the base tone
	assert.Equal(t, colorful.Hsl(0, baseSaturation, baseLightness).Hex(), colors["A"])
	assert.Equal(t, colorful.Hsl(180, baseSaturation, baseLightness).Hex(), colors["B"])
}

func TestAssignColors_Sizes(t *testing.T) {
	for _, n := range []int{1, 5, 12, 13, 30, 50, 120} {
		t.Run(fmt.Sprintf("%d names", n), func(t *testing.T) {
			colors := AssignColors(names(n))
			assert.Len(t, colors, n)
			assertDistinct(t, colors)
		})
	}
}

func TestAssignColors_Deterministic(t *testing.T) {
	in := names(50)
	first := AssignColors(in)

	reversed := make([]string, len(in))
	for i, n := range in {
		reversed[len(in)-1-i] = n
	}
	second := AssignColors(reversed)

	assert.Equal(t, first, second, "input order must not change the assignment")
}

func TestResolveCollision_ReturnsUnusedColor(t *testing.T) {
	used := map[string]bool{}
	first := resolveCollision("Mercado", 0, baseSaturation, baseLightness, used)
	used[first] = true
	second := resolveCollision("Mercado", 0, baseSaturation, baseLightness, used)

	assert.NotEqual(t, first, second)
	assert.Regexp(t, hexPattern, second)
}
