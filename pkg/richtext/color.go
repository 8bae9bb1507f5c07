package richtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var rgbPattern = regexp.MustCompile(`^rgb\((\d+),\s*(\d+),\s*(\d+)\)$`)

var namedColors = map[string]string{
	"black":   "000000",
	"white":   "FFFFFF",
	"red":     "FF0000",
	"green":   "008000",
	"blue":    "0000FF",
	"yellow":  "FFFF00",
	"cyan":    "00FFFF",
	"magenta": "FF00FF",
	"gray":    "808080",
	"grey":    "808080",
}

// ParseColor normalizes a CSS color value (#rgb, #rrggbb, rgb(r,g,b), or one
// of a small named table) to an RRGGBB hex string. Unknown values report
// ok=false and are ignored by the formatter.
func ParseColor(raw string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))

	if hex, found := strings.CutPrefix(value, "#"); found {
		switch len(hex) {
		case 6:
			if isHex(hex) {
				return strings.ToUpper(hex), true
			}
		case 3:
			if isHex(hex) {
				var b strings.Builder
				for _, c := range hex {
					b.WriteRune(c)
					b.WriteRune(c)
				}
				return strings.ToUpper(b.String()), true
			}
		}
		return "", false
	}

	if m := rgbPattern.FindStringSubmatch(value); m != nil {
		r, errR := strconv.Atoi(m[1])
		g, errG := strconv.Atoi(m[2])
		b, errB := strconv.Atoi(m[3])
		if errR != nil || errG != nil || errB != nil || r > 255 || g > 255 || b > 255 {
			return "", false
		}
		return fmt.Sprintf("%02X%02X%02X", r, g, b), true
	}

	if hex, ok := namedColors[value]; ok {
		return hex, true
	}
	return "", false
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
