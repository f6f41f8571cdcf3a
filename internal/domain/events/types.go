package events

// Category es un tag del vocabulario fijo.
type Category string

const (
	CategoryMusic         Category = "music"
	CategoryFood          Category = "food"
	CategoryFastFood      Category = "fastfood"
	CategoryRestaurant    Category = "restaurant"
	CategoryDrinks        Category = "drinks"
	CategoryDancing       Category = "dancing"
	CategoryEntertainment Category = "entertainment"
	CategorySports        Category = "sports"
	CategoryArt           Category = "art"
)

// Vocabulary en el orden canónico.
var Vocabulary = []Category{
	CategoryMusic,
	CategoryFood,
	CategoryFastFood,
	CategoryRestaurant,
	CategoryDrinks,
	CategoryDancing,
	CategoryEntertainment,
	CategorySports,
	CategoryArt,
}

func (c Category) Valid() bool {
	for _, v := range Vocabulary {
		if c == v {
			return true
		}
	}
	return false
}

// venueCategories: si un registro con name == venue tiene alguna de estas,
// se trata como listado de venue.
var venueCategories = map[Category]bool{
	CategoryFood:       true,
	CategoryFastFood:   true,
	CategoryRestaurant: true,
	CategoryDrinks:     true,
	CategoryDancing:    true,
}

type AgeRequirement string

const (
	AgeAll AgeRequirement = "all"
	Age18  AgeRequirement = "18"
	Age21  AgeRequirement = "21"
)

func (a AgeRequirement) Valid() bool {
	switch a {
	case AgeAll, Age18, Age21:
		return true
	}
	return false
}

// Kind distingue un evento con horario de un venue "siempre abierto".
type Kind string

const (
	KindScheduledEvent Kind = "scheduled_event"
	KindVenueListing   Kind = "venue_listing"
)

// Claves de ticketLinks.
const (
	LinkTicketmaster = "ticketmaster"
	LinkEventbrite   = "eventbrite"
	LinkStubHub      = "stubhub"
	LinkSeatGeek     = "seatgeek"
	LinkWebsite      = "website"
)

// IsMarketplace indica si la clave es un marketplace de tickets (no "website").
func IsMarketplace(key string) bool {
	switch key {
	case LinkTicketmaster, LinkEventbrite, LinkStubHub, LinkSeatGeek:
		return true
	}
	return false
}
