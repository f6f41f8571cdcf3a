package eventbrite

// Forma cruda de /v3/events/search con expand=venue,category,subcategory,ticket_availability.

type searchResponse struct {
	Events     []rawEvent `json:"events"`
	Pagination struct {
		ObjectCount int  `json:"object_count"`
		HasMore     bool `json:"has_more_items"`
	} `json:"pagination"`
}

type rawEvent struct {
	ID          string   `json:"id"`
	Name        rawText  `json:"name"`
	Description rawText  `json:"description"`
	Summary     string   `json:"summary"`
	URL         string   `json:"url"`
	Start       rawDate  `json:"start"`
	End         *rawDate `json:"end"`
	IsFree      bool     `json:"is_free"`
	OnlineEvent bool     `json:"online_event"`

	Logo *struct {
		URL string `json:"url"`
	} `json:"logo"`

	Venue       *rawVenue    `json:"venue"`
	Category    *rawCategory `json:"category"`
	Subcategory *rawCategory `json:"subcategory"`
	Format      *rawCategory `json:"format"`

	TicketAvailability *struct {
		MinimumTicketPrice *rawMoney `json:"minimum_ticket_price"`
	} `json:"ticket_availability"`
}

type rawText struct {
	Text string `json:"text"`
}

type rawDate struct {
	Local    string `json:"local"`
	Timezone string `json:"timezone"`
}

type rawVenue struct {
	Name    string `json:"name"`
	Address struct {
		Address1 string `json:"address_1"`
		City     string `json:"city"`
		Region   string `json:"region"`
	} `json:"address"`
}

type rawCategory struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// rawMoney: value viene en centavos.
type rawMoney struct {
	Currency   string `json:"currency"`
	MajorValue string `json:"major_value"`
	Value      int    `json:"value"`
}
