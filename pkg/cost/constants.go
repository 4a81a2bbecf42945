package cost

// Model constants for the capacity cost functions.
const (
	TransitionFactor = 1.2 // surcharge on the price gap between two capacity options
	RoundingPlaces   = -3  // currency amounts are rounded to the nearest thousand
	PercentDivisor   = 100.0
)

// TransitionKind labels a capacity change by direction in option order.
type TransitionKind string

const (
	Extension TransitionKind = "extension" // from a lower to a higher option index
	Reduction TransitionKind = "reduction" // from a higher to a lower option index
)
