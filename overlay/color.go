package overlay

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vinizap/pinnotes/domain"
)

// Tone is the foreground chosen for text on a note.
type Tone int

const (
	Light Tone = iota
	Dark
)

// Hex returns the CSS color used for the tone.
func (t Tone) Hex() string {
	if t == Dark {
		return "#000"
	}
	return "#fff"
}

func (t Tone) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

var digitGroups = regexp.MustCompile(`\d+`)

// NormalizeColor turns a loose CSS color into #rrggbb. Values already
// starting with '#' are returned as is. Anything else contributes its first
// three decimal groups as channels; with no groups the default is used.
func NormalizeColor(color string) string {
	if color == "" {
		return domain.DefaultColor
	}
	if strings.HasPrefix(color, "#") {
		return color
	}
	groups := digitGroups.FindAllString(color, 3)
	if len(groups) == 0 {
		return domain.DefaultColor
	}
	var rgb [3]int
	for i, g := range groups {
		v, err := strconv.Atoi(g)
		if err != nil || v > 255 {
			v = 255
		}
		rgb[i] = v
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// RelativeLuminance is the sRGB relative luminance of a #rgb or #rrggbb
// color, in [0, 1]. Channels that do not parse count as 0.
func RelativeLuminance(hex string) float64 {
	r, g, b := channels(strings.TrimPrefix(hex, "#"))
	return 0.2126*linear(r) + 0.7152*linear(g) + 0.0722*linear(b)
}

// ChooseForeground picks dark text for light backgrounds and light text
// otherwise. Luminance exactly 0.5 gets light text.
func ChooseForeground(color string) Tone {
	if RelativeLuminance(NormalizeColor(color)) > 0.5 {
		return Dark
	}
	return Light
}

func channels(h string) (r, g, b float64) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	ch := func(i int) float64 {
		if len(h) < i+2 {
			return 0
		}
		v, err := strconv.ParseUint(h[i:i+2], 16, 8)
		if err != nil {
			return 0
		}
		return float64(v) / 255
	}
	return ch(0), ch(2), ch(4)
}

func linear(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
