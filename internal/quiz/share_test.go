package quiz

import (
	"strings"
	"testing"
)

func TestShareTextWorldwide(t *testing.T) {
	countries := testCountries()
	// All of Europe found, nothing else.
	found := []string{"250", "276", "724", "643", "336"}

	text := ShareText(countries, found, ContinentAll, len(found), len(countries))

	if !strings.HasPrefix(text, "🌍 World Map Quiz: 5/10 (50%)") {
		t.Errorf("header = %q", strings.SplitN(text, "\n", 2)[0])
	}
	if !strings.Contains(text, "🟦 Europe: 100%") {
		t.Errorf("missing full-clear Europe line:\n%s", text)
	}
	if !strings.Contains(text, "⬜ Oceania: 0%") {
		t.Errorf("missing empty Oceania line:\n%s", text)
	}
	// Russia counts for Asia too, so Asia is partially cleared.
	if !strings.Contains(text, "🟥 Asia:") {
		t.Errorf("missing partial Asia line:\n%s", text)
	}
}

func TestShareTextSingleContinent(t *testing.T) {
	countries := testCountries()
	found := []string{"882", "798"} // 2 of 3 Oceania

	text := ShareText(countries, found, "Oceania", 2, 3)

	if !strings.Contains(text, "Oceania Quiz: 2/3 (66%)") {
		t.Errorf("header wrong:\n%s", text)
	}
	if strings.Contains(text, "Europe") {
		t.Errorf("filtered share should not mention other continents:\n%s", text)
	}
	if !strings.Contains(text, "🟨 Oceania: 66%") {
		t.Errorf("missing majority-clear line:\n%s", text)
	}
}
