package analytics

// FuelProfile holds the derived demand figures of one fuel.
type FuelProfile struct {
	Fuel            string   `json:"fuel"`
	PeakDemand      float64  `json:"peak_demand"`
	PeakYear        string   `json:"peak_year,omitempty"`
	TotalDemand     float64  `json:"total_demand"`
	FirstDemandYear string   `json:"first_demand_year,omitempty"`
	LargestOption   float64  `json:"largest_option"`
	TanksAtPeak     int      `json:"tanks_at_peak"`
	DropYears       []string `json:"drop_years,omitempty"`
	ShutdownYear    string   `json:"shutdown_year,omitempty"`
	ShutdownPeriod  int      `json:"shutdown_period"`
}

// Profile is the demand analysis of a planning input.
type Profile struct {
	Slots int           `json:"slots"`
	Fuels []FuelProfile `json:"fuels"`
}
