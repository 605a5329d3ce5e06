package shapes

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestPlanShowsMappedBlocksOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		shape Shape
		want  []Hairstyle
	}{
		{"square", Square, []Hairstyle{CrewCut, Fade, Pompadour}},
		{"round", Round, []Hairstyle{Pompadour, HighFade, SidePart}},
		{"Round", Round, []Hairstyle{Pompadour, HighFade, SidePart}},
		{"oval", Oval, []Hairstyle{Quiff, Buzz, Waves}},
		{"ovale", Oval, []Hairstyle{Quiff, Buzz, Waves}},
		{"rectangular", Rectangular, []Hairstyle{SidePart, Fringe, TexturedCrop}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			v := Plan(tt.label)
			if v.Shape != tt.shape {
				t.Fatalf("Plan(%q).Shape = %q, want %q", tt.label, v.Shape, tt.shape)
			}
			if got := v.VisibleStyles(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Plan(%q) styles = %v, want %v", tt.label, got, tt.want)
			}
			for _, shape := range All {
				if v.Details[shape] != (shape == tt.shape) {
					t.Fatalf("detail %q visible=%v for label %q", shape, v.Details[shape], tt.label)
				}
			}
			if len(v.Styles) != len(Hairstyles) {
				t.Fatalf("visibility should cover all %d hairstyles, got %d", len(Hairstyles), len(v.Styles))
			}
		})
	}
}

func TestPlanUnknownLabelHidesEverything(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"", "heart", "diamond", "ovals"} {
		v := Plan(label)
		if v.Any() {
			t.Fatalf("Plan(%q) should hide every block, got %+v", label, v)
		}
		if v.Shape != "" {
			t.Fatalf("Plan(%q).Shape = %q, want empty", label, v.Shape)
		}
	}
}

func TestRecommendedReturnsCopy(t *testing.T) {
	t.Parallel()

	styles := Recommended(Square)
	styles[0] = Waves
	if Recommended(Square)[0] != CrewCut {
		t.Fatal("Recommended should not expose the shared table")
	}
	if Recommended("heart") != nil {
		t.Fatal("unknown shapes have no recommendations")
	}
}

func TestDefaultCatalogCoversEveryBlock(t *testing.T) {
	t.Parallel()

	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}
	for _, shape := range All {
		if strings.TrimSpace(c.Shapes[shape].Title) == "" {
			t.Fatalf("shape %q has no title", shape)
		}
	}
	if got := c.StyleName(TexturedCrop); got != "Textured Crop" {
		t.Fatalf("StyleName(TexturedCrop) = %q", got)
	}
}

func TestLoadCatalogRejectsIncompleteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "shapes:\n  square:\n    title: Square\nhairstyles: {}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil || !strings.Contains(err.Error(), "missing shape") {
		t.Fatalf("expected missing shape error, got %v", err)
	}
}
