// Package designtokens generates design token sets: color scales derived
// from a base color plus spacing and type ramps, exported as CSS custom
// properties or JSON.
package designtokens

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// Options controls token generation.
type Options struct {
	// Name prefixes every token (e.g. "brand" yields --brand-500).
	Name string
	// BaseColor is the scale midpoint as a #rrggbb hex color.
	BaseColor string
	// Steps is the number of scale stops, between 3 and 11.
	Steps int
	// BaseSpacing is the spacing unit in pixels; defaults to 4.
	BaseSpacing float64
	// BaseFontSize is the type ramp base in pixels; defaults to 16.
	BaseFontSize float64
	// TypeRatio is the modular scale ratio; defaults to 1.25.
	TypeRatio float64
}

// Token is one generated design token.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Set is a full generated token set.
type Set struct {
	Colors  []Token `json:"colors"`
	Spacing []Token `json:"spacing"`
	Type    []Token `json:"type"`
}

// Generate produces a token set from options.
func Generate(opts Options) (*Set, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "brand"
	}
	if opts.Steps == 0 {
		opts.Steps = 9
	}
	if opts.Steps < 3 || opts.Steps > 11 {
		return nil, apperrors.WithMetadata(apperrors.CodeTokensInvalidSteps,
			"steps must be between 3 and 11", map[string]string{"steps": fmt.Sprintf("%d", opts.Steps)})
	}
	h, s, l, err := parseHexToHSL(opts.BaseColor)
	if err != nil {
		return nil, err
	}
	if opts.BaseSpacing <= 0 {
		opts.BaseSpacing = 4
	}
	if opts.BaseFontSize <= 0 {
		opts.BaseFontSize = 16
	}
	if opts.TypeRatio <= 1 {
		opts.TypeRatio = 1.25
	}

	set := &Set{}

	// Color scale: interpolate lightness from near-white to near-black
	// around the base color's hue and saturation.
	for i := 0; i < opts.Steps; i++ {
		weight := (i + 1) * 100
		t := float64(i) / float64(opts.Steps-1)
		lightness := 0.95 - t*(0.95-0.12)
		// Pull the middle stop toward the base color's own lightness.
		mid := float64(opts.Steps-1) / 2
		pull := 1 - math.Abs(float64(i)-mid)/mid
		lightness = lightness*(1-pull*0.5) + l*(pull*0.5)
		set.Colors = append(set.Colors, Token{
			Name:  fmt.Sprintf("%s-%d", name, weight),
			Value: hslToHex(h, s, lightness),
		})
	}

	spacingSteps := []struct {
		suffix string
		factor float64
	}{
		{"xs", 1}, {"sm", 2}, {"md", 4}, {"lg", 6}, {"xl", 8}, {"2xl", 12},
	}
	for _, step := range spacingSteps {
		set.Spacing = append(set.Spacing, Token{
			Name:  fmt.Sprintf("space-%s", step.suffix),
			Value: formatPx(opts.BaseSpacing * step.factor),
		})
	}

	typeSteps := []struct {
		suffix string
		power  float64
	}{
		{"sm", -1}, {"base", 0}, {"lg", 1}, {"xl", 2}, {"2xl", 3}, {"3xl", 4},
	}
	for _, step := range typeSteps {
		set.Type = append(set.Type, Token{
			Name:  fmt.Sprintf("text-%s", step.suffix),
			Value: formatPx(opts.BaseFontSize * math.Pow(opts.TypeRatio, step.power)),
		})
	}

	return set, nil
}

// CSS renders the set as a :root block of custom properties.
func (s *Set) CSS() string {
	var builder strings.Builder
	builder.WriteString(":root {\n")
	for _, group := range [][]Token{s.Colors, s.Spacing, s.Type} {
		for _, token := range group {
			fmt.Fprintf(&builder, "  --%s: %s;\n", token.Name, token.Value)
		}
	}
	builder.WriteString("}\n")
	return builder.String()
}

// Names returns every token name, sorted.
func (s *Set) Names() []string {
	var names []string
	for _, group := range [][]Token{s.Colors, s.Spacing, s.Type} {
		for _, token := range group {
			names = append(names, token.Name)
		}
	}
	sort.Strings(names)
	return names
}

func formatPx(value float64) string {
	rounded := math.Round(value*100) / 100
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("%dpx", int(rounded))
	}
	return strings.TrimRight(fmt.Sprintf("%.2f", rounded), "0") + "px"
}

func parseHexToHSL(hex string) (h, s, l float64, err error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, 0, 0, invalidColor(hex)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, invalidColor(hex)
	}
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l, nil
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h /= 6
	return h, s, l, nil
}

func hslToHex(h, s, l float64) string {
	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToRGB(p, q, h+1.0/3)
		g = hueToRGB(p, q, h)
		b = hueToRGB(p, q, h-1.0/3)
	}
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(r*255)), int(math.Round(g*255)), int(math.Round(b*255)))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func invalidColor(hex string) error {
	return apperrors.WithMetadata(apperrors.CodeTokensInvalidColor,
		"base color must be a #rrggbb hex value", map[string]string{"color": hex})
}
