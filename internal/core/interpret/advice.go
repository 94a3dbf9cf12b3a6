package interpret

import (
	"regexp"
	"strings"
)

const (
	advicePointsMax     = 5
	advicePointMinChars = 20
)

var (
	adviceSplitPattern  = regexp.MustCompile(`\d+\.|\n-|\n\*|##|###`)
	adviceLeadingMarkup = regexp.MustCompile(`^[\d.\-*#\s]+`)
)

// ExtractAdvicePoints segments free advisory text on numbered, bulleted or
// heading markers, drops short fragments and caps the result at five items.
func ExtractAdvicePoints(text string) []string {
	fragments := adviceSplitPattern.Split(text, -1)

	var points []string
	for _, fragment := range fragments {
		if len(strings.TrimSpace(fragment)) <= advicePointMinChars {
			continue
		}
		point := strings.TrimSpace(adviceLeadingMarkup.ReplaceAllString(strings.TrimSpace(fragment), ""))
		if point == "" {
			continue
		}
		points = append(points, point)
		if len(points) == advicePointsMax {
			break
		}
	}
	return points
}
