package quiz

import "github.com/oscarbrimelow/CountryNames/internal/geo"

// testCountries is a small reference set exercising the filter edge cases:
// multi-continent tags, missing population, missing coordinates, missing
// capital.
func testCountries() []geo.Country {
	return []geo.Country{
		{ID: "250", Alpha3: "FRA", Name: "France", Continents: []string{"Europe"}, Capital: "Paris", Population: 67750000, Coords: []float64{2.2, 46.2}},
		{ID: "276", Alpha3: "DEU", Name: "Germany", Aliases: []string{"deutschland"}, Continents: []string{"Europe"}, Capital: "Berlin", Population: 83200000, Coords: []float64{10.5, 51.2}},
		{ID: "724", Alpha3: "ESP", Name: "Spain", Continents: []string{"Europe"}, Capital: "Madrid", Population: 47400000, Coords: []float64{-3.7, 40.5}},
		{ID: "643", Alpha3: "RUS", Name: "Russia", Continents: []string{"Europe", "Asia"}, Capital: "Moscow", Population: 143400000, Coords: []float64{105.3, 61.5}},
		{ID: "392", Alpha3: "JPN", Name: "Japan", Aliases: []string{"nippon"}, Continents: []string{"Asia"}, Capital: "Tokyo", Population: 125700000, Coords: []float64{138.3, 36.2}},
		{ID: "076", Alpha3: "BRA", Name: "Brazil", Continents: []string{"South America"}, Capital: "Brasília", Population: 214300000, Coords: []float64{-51.9, -14.2}},
		{ID: "882", Alpha3: "WSM", Name: "Samoa", Continents: []string{"Oceania"}, Capital: "Apia", Population: 200000, Coords: []float64{-172.1, -13.8}},
		{ID: "798", Alpha3: "TUV", Name: "Tuvalu", Continents: []string{"Oceania"}, Capital: "Funafuti", Population: 11000}, // no coords
		{ID: "520", Alpha3: "NRU", Name: "Nauru", Continents: []string{"Oceania"}, Population: 10000, Coords: []float64{166.9, -0.5}}, // no capital
		{ID: "336", Alpha3: "VAT", Name: "Vatican City", Aliases: []string{"vatican"}, Continents: []string{"Europe"}, Capital: "Vatican City", Coords: []float64{12.5, 41.9}}, // no population
	}
}

func countryByID(pool []geo.Country, id string) geo.Country {
	for _, c := range pool {
		if c.ID == id {
			return c
		}
	}
	return geo.Country{}
}
