package spec

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input is the planning request: horizon, fuels, capacity options, cost
// profiles and demand forecasts.
type Input struct {
	T          []Year                      `yaml:"T" json:"T"`
	Fuels      []string                    `yaml:"Fuels" json:"Fuels"`
	Capacities map[string][]float64        `yaml:"Capacities" json:"Capacities"`
	Costs      map[string]CostProfile      `yaml:"Costs" json:"Costs"`
	Demand     map[string]map[Year]float64 `yaml:"Demand" json:"Demand"`
}

// CostProfile holds the per-fuel cost parameters. Rates are percentages.
type CostProfile struct {
	MaintenanceCost     float64   `yaml:"maintenanceCost" json:"maintenanceCost"`
	DecommissioningCost float64   `yaml:"decommissioningCost" json:"decommissioningCost"`
	Costs               []float64 `yaml:"costs" json:"costs"`
	ChangeRate          float64   `yaml:"changeRate" json:"changeRate"`
}

// Year is the literal text of a planning year. It is used both as an
// ordered period label and as a key into Demand, and is echoed unchanged
// into output keys.
type Year string

// UnmarshalJSON accepts a JSON string or number and keeps its literal text.
func (y *Year) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return fmt.Errorf("year must not be null")
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or number: %w", err)
	}
	*y = Year(n.String())
	return nil
}

// UnmarshalYAML keeps the scalar text as written.
func (y *Year) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: year must be a scalar", node.Line)
	}
	*y = Year(node.Value)
	return nil
}

func (y Year) String() string { return string(y) }

// DemandFor returns the forecast for a fuel in a year and whether it exists.
func (in *Input) DemandFor(fuel string, year Year) (float64, bool) {
	byYear, ok := in.Demand[fuel]
	if !ok {
		return 0, false
	}
	d, ok := byYear[year]
	return d, ok
}

// FuelIndex returns the position of a fuel in the Fuels list, or -1.
func (in *Input) FuelIndex(name string) int {
	for i, f := range in.Fuels {
		if f == name {
			return i
		}
	}
	return -1
}
