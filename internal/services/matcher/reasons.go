package matcher

import (
	"sort"
	"strings"
)

const (
	// A factor earns a reason when it clearly helped or clearly hurt.
	positiveReasonThreshold = 0.6
	caveatReasonThreshold   = 0.2

	maxReasons = 4
)

// Reasons derives the ordered justification strings for a scored candidate
// from the same breakdown the total score was computed from, so the text can
// never disagree with the number. Strong factors come first; caveats sort
// last because their contribution is small by definition.
func Reasons(breakdown Breakdown) []string {
	type candidate struct {
		text         string
		contribution float64
	}

	var selected []candidate
	for _, s := range breakdown {
		switch {
		case s.Score >= positiveReasonThreshold && s.Detail != "":
			selected = append(selected, candidate{s.Detail, s.Contribution()})
		case s.Score <= caveatReasonThreshold && s.Caveat != "":
			selected = append(selected, candidate{s.Caveat, s.Contribution()})
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].contribution > selected[j].contribution
	})

	if len(selected) > maxReasons {
		selected = selected[:maxReasons]
	}

	reasons := make([]string, len(selected))
	for i, c := range selected {
		reasons[i] = c.text
	}
	return reasons
}

// humanizeList joins names for display: "cleanliness and sleep",
// "cleanliness, noise and sleep".
func humanizeList(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
