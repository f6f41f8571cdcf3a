package ticketmaster

// Forma cruda de la Discovery API v2 (solo los campos que usamos).

type searchResponse struct {
	Embedded struct {
		Events []rawEvent `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalElements int `json:"totalElements"`
	} `json:"page"`
}

type rawEvent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Info       string `json:"info"`
	PleaseNote string `json:"pleaseNote"`

	Dates struct {
		Start rawDate  `json:"start"`
		End   *rawDate `json:"end"`
	} `json:"dates"`

	Classifications []rawClassification `json:"classifications"`
	PriceRanges     []rawPriceRange     `json:"priceRanges"`
	Images          []rawImage          `json:"images"`

	AgeRestrictions *struct {
		LegalAgeEnforced bool `json:"legalAgeEnforced"`
	} `json:"ageRestrictions"`

	Embedded struct {
		Venues      []rawVenue      `json:"venues"`
		Attractions []rawAttraction `json:"attractions"`
	} `json:"_embedded"`
}

type rawDate struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
	TimeTBA   bool   `json:"timeTBA"`
}

type rawClassification struct {
	Primary  bool    `json:"primary"`
	Segment  rawName `json:"segment"`
	Genre    rawName `json:"genre"`
	SubGenre rawName `json:"subGenre"`
}

type rawName struct {
	Name string `json:"name"`
}

type rawPriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type rawImage struct {
	URL    string `json:"url"`
	Ratio  string `json:"ratio"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type rawVenue struct {
	Name  string  `json:"name"`
	City  rawName `json:"city"`
	State struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
}

type rawAttraction struct {
	Name string `json:"name"`
}
