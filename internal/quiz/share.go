package quiz

import (
	"fmt"
	"strings"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
)

// ShareText renders a post-game summary with per-continent completion
// percentages, suitable for pasting into a chat.
func ShareText(countries []geo.Country, foundIDs []string, continent string, score, total int) string {
	title := "World Map Quiz"
	regions := geo.Continents
	if continent != "" && continent != ContinentAll {
		title = continent + " Quiz"
		regions = []string{continent}
	}

	found := make(map[string]bool, len(foundIDs))
	for _, id := range foundIDs {
		found[id] = true
	}

	var lines []string
	for _, region := range regions {
		var inRegion, foundInRegion int
		for _, c := range countries {
			if !c.InContinent(region) {
				continue
			}
			inRegion++
			if found[c.ID] {
				foundInRegion++
			}
		}
		if inRegion == 0 {
			continue
		}

		pct := foundInRegion * 100 / inRegion
		icon := "⬜"
		switch {
		case pct == 100:
			icon = "🟦"
		case pct >= 50:
			icon = "🟨"
		case pct > 0:
			icon = "🟥"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %d%%", icon, region, pct))
	}

	percentage := 0
	if total > 0 {
		percentage = score * 100 / total
	}
	return fmt.Sprintf("🌍 %s: %d/%d (%d%%)\n\n%s\n\nCan you beat me?",
		title, score, total, percentage, strings.Join(lines, "\n"))
}
