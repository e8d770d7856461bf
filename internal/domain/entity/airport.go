package entity

// Airport maps an IATA code to the city and country used for residency
// accounting.
type Airport struct {
	ID      uint
	Code    string
	Name    string
	City    string
	Country string
}
