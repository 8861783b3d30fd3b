package consent

// Position is a symbolic banner placement.
type Position string

const (
	PositionTop         Position = "top"
	PositionBottom      Position = "bottom"
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// Positions lists every supported placement.
func Positions() []Position {
	return []Position{
		PositionTop,
		PositionBottom,
		PositionTopLeft,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomRight,
	}
}

// ParsePosition reports whether value names a supported placement. Matching
// is exact: "TOP" or " top " are not positions.
func ParsePosition(value string) (Position, bool) {
	for _, p := range Positions() {
		if string(p) == value {
			return p, true
		}
	}
	return "", false
}

// Placement is the presentation descriptor for a position: a CSS class and
// an inline style usable without the stylesheet.
type Placement struct {
	Position Position
	Class    string
	Style    string
}

var placements = map[Position]Placement{
	PositionTop: {
		Position: PositionTop,
		Class:    "cookie-consent--top",
		Style:    "top:0;left:50%;transform:translateX(-50%)",
	},
	PositionBottom: {
		Position: PositionBottom,
		Class:    "cookie-consent--bottom",
		Style:    "bottom:0;left:50%;transform:translateX(-50%)",
	},
	PositionTopLeft: {
		Position: PositionTopLeft,
		Class:    "cookie-consent--top-left",
		Style:    "top:20px;left:20px",
	},
	PositionTopRight: {
		Position: PositionTopRight,
		Class:    "cookie-consent--top-right",
		Style:    "top:20px;right:20px",
	},
	PositionBottomLeft: {
		Position: PositionBottomLeft,
		Class:    "cookie-consent--bottom-left",
		Style:    "bottom:20px;left:20px",
	},
	PositionBottomRight: {
		Position: PositionBottomRight,
		Class:    "cookie-consent--bottom-right",
		Style:    "bottom:20px;right:20px",
	},
}

// PlacementFor maps a position to its descriptor. Unknown values get the
// bottom-left placement.
func PlacementFor(value string) Placement {
	if p, ok := ParsePosition(value); ok {
		return placements[p]
	}
	return placements[PositionBottomLeft]
}
