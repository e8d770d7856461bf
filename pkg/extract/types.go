package extract

// Destination is a resolved arrival city/country pair.
type Destination struct {
	City    string
	Country string
}
