// Package geo holds the static country reference set. The data is embedded
// at build time and loaded once at startup; everything downstream treats it
// as read-only.
package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed countries.json
var rawCountries []byte

// Country is a single entry of the reference set.
type Country struct {
	ID         string
	Alpha3     string
	Name       string
	Aliases    []string
	Continents []string
	Capital    string
	Fact       string
	Population int64     // 0 when unknown
	Coords     []float64 // [lon, lat]; nil when the country has no map placement
}

// countryJSON mirrors the embedded dataset, where "continent" may be a
// single string or an array of strings.
type countryJSON struct {
	ID         string          `json:"id"`
	Alpha3     string          `json:"alpha3"`
	Name       string          `json:"name"`
	Aliases    []string        `json:"aliases"`
	Continent  json.RawMessage `json:"continent"`
	Capital    string          `json:"capital"`
	Fact       string          `json:"fact"`
	Population int64           `json:"population"`
	Coords     []float64       `json:"coords"`
}

// Load parses the embedded reference set and validates that IDs are unique.
func Load() ([]Country, error) {
	var raw []countryJSON
	if err := json.Unmarshal(rawCountries, &raw); err != nil {
		return nil, fmt.Errorf("parsing countries dataset: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	countries := make([]Country, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" || r.Name == "" {
			return nil, fmt.Errorf("country %q: missing id or name", r.Name)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate country id %q", r.ID)
		}
		seen[r.ID] = true

		continents, err := parseContinent(r.Continent)
		if err != nil {
			return nil, fmt.Errorf("country %q: %w", r.Name, err)
		}

		countries = append(countries, Country{
			ID:         r.ID,
			Alpha3:     r.Alpha3,
			Name:       r.Name,
			Aliases:    r.Aliases,
			Continents: continents,
			Capital:    r.Capital,
			Fact:       r.Fact,
			Population: r.Population,
			Coords:     r.Coords,
		})
	}
	return countries, nil
}

func parseContinent(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing continent")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("invalid continent value: %w", err)
	}
	return many, nil
}

// InContinent reports whether any of the country's continent tags equals tag.
func (c Country) InContinent(tag string) bool {
	for _, t := range c.Continents {
		if t == tag {
			return true
		}
	}
	return false
}

// HasCoords reports whether the country can be placed on the map.
func (c Country) HasCoords() bool { return len(c.Coords) == 2 }

// HasCapital reports whether a capital city is recorded.
func (c Country) HasCapital() bool { return c.Capital != "" }

// Continents lists the continent tags used by the dataset, in display order.
var Continents = []string{"Africa", "Asia", "Europe", "North America", "South America", "Oceania"}
