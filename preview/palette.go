package preview

// Colors is the cyclic route palette, consumed round-robin in order.
var Colors = []string{
	"red", "blue", "green", "purple", "orange", "darkred", "lightred", "beige",
	"darkblue", "darkgreen", "cadetblue", "darkpurple", "pink", "lightblue",
	"lightgreen", "gray", "black", "lightgray",
}

// Offsets is the cyclic sequence of lateral offsets in metres, alternating
// sides around the original alignment.
var Offsets = []float64{-4, 0, 4, -8, 8, -12, 12, -16, 16, -20, 20}
