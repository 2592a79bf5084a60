package geo

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	countries, err := Load()
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}
	if len(countries) < 50 {
		t.Fatalf("expected at least 50 countries, got %d", len(countries))
	}

	seen := make(map[string]bool)
	for _, c := range countries {
		if seen[c.ID] {
			t.Errorf("duplicate id %q", c.ID)
		}
		seen[c.ID] = true
		if len(c.Continents) == 0 {
			t.Errorf("%s: no continent tags", c.Name)
		}
	}
}

func TestContinentScalarAndArray(t *testing.T) {
	countries, err := Load()
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}
	byName := make(map[string]Country)
	for _, c := range countries {
		byName[c.Name] = c
	}

	if got := byName["France"].Continents; len(got) != 1 || got[0] != "Europe" {
		t.Errorf("France continents = %v, want [Europe]", got)
	}

	russia := byName["Russia"]
	if !russia.InContinent("Europe") || !russia.InContinent("Asia") {
		t.Errorf("Russia continents = %v, want both Europe and Asia", russia.Continents)
	}
	if russia.InContinent("Africa") {
		t.Error("Russia should not match Africa")
	}
}

func TestDatasetEdgeEntries(t *testing.T) {
	countries, err := Load()
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}
	byName := make(map[string]Country)
	for _, c := range countries {
		byName[c.Name] = c
	}

	if byName["Nauru"].HasCapital() {
		t.Error("Nauru should have no capital recorded")
	}
	if byName["Tuvalu"].HasCoords() {
		t.Error("Tuvalu should have no coordinates")
	}
	if byName["Vatican City"].Population != 0 {
		t.Error("Vatican City should have no population figure")
	}
	if !byName["United States"].HasCoords() {
		t.Error("United States should have coordinates")
	}
}

func TestFlagURL(t *testing.T) {
	if got := FlagURL("USA"); got != "https://flagcdn.com/w160/us.png" {
		t.Errorf("FlagURL(USA) = %q", got)
	}
	if got := FlagURL("ZZZ"); got != "" {
		t.Errorf("FlagURL(ZZZ) = %q, want empty", got)
	}
	if got := FlagURL("DEU"); !strings.HasSuffix(got, "/de.png") {
		t.Errorf("FlagURL(DEU) = %q", got)
	}
}
