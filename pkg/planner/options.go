package planner

import (
	"fmt"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
)

// Variant selects the model family.
type Variant string

const (
	SingleSlot Variant = "single"
	MultiSlot  Variant = "multi"
)

// DefaultSlots is the number of tank slots of the multi-slot variant.
const DefaultSlots = 10

// Options configure a planning run. Zero values select the variant's
// defaults.
type Options struct {
	Variant Variant
	// Slots is the number of tank slots in the multi-slot variant.
	Slots int
	// InitialFuel names the boundary fuel that is in service at the start
	// of the horizon. Empty selects the first listed fuel.
	InitialFuel string
	// LifetimeCloseBound limits closures per fuel like openings are
	// limited. On by default for the single-slot variant only.
	LifetimeCloseBound *bool
	// NormalizeTransitionRate divides the change rate by 100 on the target
	// side of transition costs. On by default for the multi-slot variant
	// only.
	NormalizeTransitionRate *bool

	Engine        string
	EngineOptions engine.Options
}

// settings are Options with every default applied.
type settings struct {
	variant     Variant
	slots       int
	initialFuel string
	closeBound  bool
	normalize   bool
}

func (o Options) resolve() (settings, error) {
	s := settings{variant: o.Variant, initialFuel: o.InitialFuel}
	switch o.Variant {
	case SingleSlot, "":
		s.variant = SingleSlot
		s.slots = 1
		s.closeBound = true
	case MultiSlot:
		s.slots = o.Slots
		if s.slots == 0 {
			s.slots = DefaultSlots
		}
		s.normalize = true
	default:
		return settings{}, fmt.Errorf("%w: unknown variant %q", ErrMalformedInput, o.Variant)
	}
	if o.LifetimeCloseBound != nil {
		s.closeBound = *o.LifetimeCloseBound
	}
	if o.NormalizeTransitionRate != nil {
		s.normalize = *o.NormalizeTransitionRate
	}
	return s, nil
}

func (s settings) multi() bool { return s.variant == MultiSlot }

// ParseVariant maps a variant name to its Variant.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case SingleSlot, MultiSlot:
		return Variant(name), nil
	case "":
		return SingleSlot, nil
	}
	return "", fmt.Errorf("unknown variant %q (want %q or %q)", name, SingleSlot, MultiSlot)
}
