package server

import (
	"net/http"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
)

// CountryView is the public reference entry for one country. The alias
// list stays server-side: it exists for matching, not display.
type CountryView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Continents []string `json:"continents"`
	Capital    string   `json:"capital,omitempty"`
	FlagURL    string   `json:"flagUrl,omitempty"`
}

// CountriesResponse lists the reference set and the continents usable as
// pool filters.
type CountriesResponse struct {
	Countries  []CountryView `json:"countries"`
	Continents []string      `json:"continents"`
}

func handleCountries(countries []geo.Country) http.HandlerFunc {
	// The reference set is immutable; build the response once.
	views := make([]CountryView, 0, len(countries))
	for _, c := range countries {
		views = append(views, CountryView{
			ID:         c.ID,
			Name:       c.Name,
			Continents: c.Continents,
			Capital:    c.Capital,
			FlagURL:    geo.FlagURL(c.Alpha3),
		})
	}
	resp := CountriesResponse{Countries: views, Continents: geo.Continents}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
