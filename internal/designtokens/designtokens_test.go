package designtokens

import (
	"strings"
	"testing"
)

func TestGenerateDefaults(t *testing.T) {
	set, err := Generate(Options{BaseColor: "#3366cc"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(set.Colors) != 9 {
		t.Fatalf("expected 9 color stops, got %d", len(set.Colors))
	}
	if set.Colors[0].Name != "brand-100" {
		t.Fatalf("unexpected first color name %q", set.Colors[0].Name)
	}
	if set.Colors[8].Name != "brand-900" {
		t.Fatalf("unexpected last color name %q", set.Colors[8].Name)
	}
	for _, token := range set.Colors {
		if !strings.HasPrefix(token.Value, "#") || len(token.Value) != 7 {
			t.Fatalf("color %s has malformed value %q", token.Name, token.Value)
		}
	}
	if got := set.Spacing[2].Value; got != "16px" {
		t.Fatalf("space-md = %q, want 16px", got)
	}
	if got := set.Type[1].Value; got != "16px" {
		t.Fatalf("text-base = %q, want 16px", got)
	}
}

func TestGenerateRejectsBadColor(t *testing.T) {
	if _, err := Generate(Options{BaseColor: "teal"}); err == nil {
		t.Fatal("expected error for non-hex color")
	}
	if _, err := Generate(Options{BaseColor: "#zzzzzz"}); err == nil {
		t.Fatal("expected error for invalid hex digits")
	}
}

func TestGenerateRejectsBadSteps(t *testing.T) {
	if _, err := Generate(Options{BaseColor: "#3366cc", Steps: 2}); err == nil {
		t.Fatal("expected error for too few steps")
	}
	if _, err := Generate(Options{BaseColor: "#3366cc", Steps: 12}); err == nil {
		t.Fatal("expected error for too many steps")
	}
}

func TestScaleLightnessDescends(t *testing.T) {
	set, err := Generate(Options{BaseColor: "#cc3333", Steps: 5})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	prev := 1.0
	for _, token := range set.Colors {
		_, _, l, err := parseHexToHSL(token.Value)
		if err != nil {
			t.Fatalf("parse %s: %v", token.Value, err)
		}
		if l >= prev {
			t.Fatalf("lightness not strictly descending at %s (%f >= %f)", token.Name, l, prev)
		}
		prev = l
	}
}

func TestCSSOutput(t *testing.T) {
	set, err := Generate(Options{Name: "accent", BaseColor: "#3366cc", Steps: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	css := set.CSS()
	if !strings.HasPrefix(css, ":root {\n") {
		t.Fatalf("css missing :root block: %q", css)
	}
	if !strings.Contains(css, "--accent-200:") {
		t.Fatalf("css missing accent-200 token: %q", css)
	}
	if !strings.Contains(css, "--space-md: 16px;") {
		t.Fatalf("css missing spacing token: %q", css)
	}
}
