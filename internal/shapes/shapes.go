package shapes

import "strings"

// Shape is a face-shape category returned by the classifier.
type Shape string

const (
	Square      Shape = "square"
	Round       Shape = "round"
	Oval        Shape = "oval"
	Rectangular Shape = "rectangular"
)

// All lists every known shape in display order.
var All = []Shape{Square, Round, Oval, Rectangular}

// Hairstyle identifies one recommendation block.
type Hairstyle string

const (
	CrewCut      Hairstyle = "CrewCut"
	Fade         Hairstyle = "Fade"
	Pompadour    Hairstyle = "Pompadour"
	HighFade     Hairstyle = "HighFade"
	SidePart     Hairstyle = "SidePart"
	Quiff        Hairstyle = "Quiff"
	Buzz         Hairstyle = "Buzz"
	Waves        Hairstyle = "Waves"
	Fringe       Hairstyle = "Fringe"
	TexturedCrop Hairstyle = "TexturedCrop"
)

// Hairstyles lists every known hairstyle block in display order.
var Hairstyles = []Hairstyle{
	CrewCut, Fade, Pompadour, HighFade, SidePart,
	Quiff, Buzz, Waves, Fringe, TexturedCrop,
}

var recommendations = map[Shape][]Hairstyle{
	Square:      {CrewCut, Fade, Pompadour},
	Round:       {Pompadour, HighFade, SidePart},
	Oval:        {Quiff, Buzz, Waves},
	Rectangular: {Fringe, TexturedCrop, SidePart},
}

// The classifier's training labels spell oval as "ovale".
var aliases = map[string]Shape{
	"ovale": Oval,
}

// Parse normalizes a classifier label into a known shape.
func Parse(label string) (Shape, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if _, ok := recommendations[Shape(key)]; ok {
		return Shape(key), true
	}
	if shape, ok := aliases[key]; ok {
		return shape, true
	}
	return "", false
}

// Recommended returns the hairstyles mapped to shape, or nil for unknown shapes.
func Recommended(shape Shape) []Hairstyle {
	styles := recommendations[shape]
	if styles == nil {
		return nil
	}
	return append([]Hairstyle(nil), styles...)
}

// Visibility records, for every known detail block and hairstyle block,
// whether it is shown.
type Visibility struct {
	Shape   Shape
	Details map[Shape]bool
	Styles  map[Hairstyle]bool
}

// Hidden returns a visibility with every block hidden.
func Hidden() Visibility {
	v := Visibility{
		Details: make(map[Shape]bool, len(All)),
		Styles:  make(map[Hairstyle]bool, len(Hairstyles)),
	}
	for _, shape := range All {
		v.Details[shape] = false
	}
	for _, style := range Hairstyles {
		v.Styles[style] = false
	}
	return v
}

// Plan hides everything and then shows the detail block and hairstyles for
// label. Unknown labels leave every block hidden.
func Plan(label string) Visibility {
	v := Hidden()
	shape, ok := Parse(label)
	if !ok {
		return v
	}
	v.Shape = shape
	v.Details[shape] = true
	for _, style := range recommendations[shape] {
		v.Styles[style] = true
	}
	return v
}

// VisibleStyles returns the shown hairstyles in display order.
func (v Visibility) VisibleStyles() []Hairstyle {
	var out []Hairstyle
	for _, style := range Hairstyles {
		if v.Styles[style] {
			out = append(out, style)
		}
	}
	return out
}

// Any reports whether at least one block is shown.
func (v Visibility) Any() bool {
	for _, shown := range v.Details {
		if shown {
			return true
		}
	}
	for _, shown := range v.Styles {
		if shown {
			return true
		}
	}
	return false
}
