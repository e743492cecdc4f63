package domain

// Context is the human-readable trace of queries executed on behalf of a
// request, returned alongside the data payload.
type Context []string

func (c *Context) Add(msg string) {
	*c = append(*c, msg)
}

type Airport struct {
	AirportName string `json:"airportname"`
}

// Flight is a scheduled route row annotated with a synthetic flight time and
// derived price. Neither is persisted.
type Flight struct {
	Name               string  `json:"name"`
	Flight             string  `json:"flight"`
	Utc                string  `json:"utc"`
	SourceAirport      string  `json:"sourceairport"`
	DestinationAirport string  `json:"destinationairport"`
	Equipment          string  `json:"equipment"`
	FlightTime         int     `json:"flighttime"`
	Price              float64 `json:"price"`
}

// BookedFlight is the flight selection a user books. The caller supplies the
// selection fields; FlightTime, Price and BookedOn are filled in server-side
// when the booking is written.
type BookedFlight struct {
	Name               string  `json:"name"`
	Flight             string  `json:"flight"`
	Date               string  `json:"date"`
	SourceAirport      string  `json:"sourceairport"`
	DestinationAirport string  `json:"destinationairport"`
	FlightTime         int     `json:"flighttime"`
	Price              float64 `json:"price"`
	BookedOn           string  `json:"bookedon"`
}

type Hotel struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address"`
}

// User is the per-tenant account document. Bookings holds booking IDs in
// append order; the field is created lazily on the first booking.
type User struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Bookings []string `json:"bookings,omitempty"`
}
