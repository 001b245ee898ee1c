package game

import (
	"fmt"
	"strings"
	"time"
)

type Instrument struct {
	Name         string  `yaml:"name" json:"name"`
	InitialPrice float64 `yaml:"initial_price" json:"initial_price"`
}

// Regime drives the random walk from FromDay onwards: every step moves the
// price by Sign * uniform[0, MaxMagnitude).
type Regime struct {
	FromDay      int     `yaml:"from_day" json:"from_day"`
	Sign         int     `yaml:"sign" json:"sign"`
	MaxMagnitude float64 `yaml:"max_magnitude" json:"max_magnitude"`
}

// Phase is one scripted narrative message, shown from FromDay onwards.
type Phase struct {
	FromDay int    `yaml:"from_day" json:"from_day"`
	Message string `yaml:"message" json:"message"`
}

// RegimeTable is ordered by FromDay ascending; the first entry starts at day 0.
type RegimeTable []Regime

// At returns the regime active on day. Days past the last threshold stay in
// the last regime.
func (t RegimeTable) At(day int) Regime {
	if len(t) == 0 {
		return Regime{}
	}
	out := t[0]
	for _, r := range t[1:] {
		if day < r.FromDay {
			break
		}
		out = r
	}
	return out
}

// Narrative is ordered by FromDay ascending. It is looked up independently of
// the regime table even though both key off the same day counter.
type Narrative []Phase

// At returns the message for day, clamped to the last phase.
func (n Narrative) At(day int) string {
	if len(n) == 0 {
		return ""
	}
	out := n[0].Message
	for _, p := range n[1:] {
		if day < p.FromDay {
			break
		}
		out = p.Message
	}
	return out
}

type Scenario struct {
	Name         string        `yaml:"name" json:"name"`
	StartingCash float64       `yaml:"starting_cash" json:"starting_cash"`
	TickEvery    time.Duration `yaml:"tick_every" json:"tick_every"`
	Instruments  []Instrument  `yaml:"instruments" json:"instruments"`
	Regimes      RegimeTable   `yaml:"regimes" json:"regimes"`
	Narrative    Narrative     `yaml:"narrative" json:"narrative"`
}

var crisis2008Regimes = RegimeTable{
	{FromDay: 0, Sign: -1, MaxMagnitude: 0.02},
	{FromDay: 50, Sign: -1, MaxMagnitude: 0.01},
	{FromDay: 150, Sign: 1, MaxMagnitude: 0.005},
	{FromDay: 200, Sign: 1, MaxMagnitude: 0.01},
}

var crisis2008Narrative = Narrative{
	{FromDay: 0, Message: "Housing market weakens as home prices start to fall."},
	{FromDay: 50, Message: "Mortgage defaults rise, hitting banks with losses."},
	{FromDay: 100, Message: "Lehman Brothers collapses, triggering panic."},
	{FromDay: 150, Message: "Global markets plunge as fears of recession grow."},
	{FromDay: 200, Message: "Government bailouts aim to stabilize the market."},
	{FromDay: 250, Message: "Early signs of recovery as market stabilizes."},
}

// DefaultScenario is the 2008 crisis: three instruments walking down through
// the crash and recovering from day 150.
func DefaultScenario() Scenario {
	regimes := make(RegimeTable, len(crisis2008Regimes))
	copy(regimes, crisis2008Regimes)
	narrative := make(Narrative, len(crisis2008Narrative))
	copy(narrative, crisis2008Narrative)
	return Scenario{
		Name:         "2008 Market Simulation",
		StartingCash: StartingCash,
		TickEvery:    TickEvery,
		Instruments: []Instrument{
			{Name: "Stock A", InitialPrice: 100},
			{Name: "Stock B", InitialPrice: 120},
			{Name: "Stock C", InitialPrice: 80},
		},
		Regimes:   regimes,
		Narrative: narrative,
	}
}

// RegimeFor is the 2008 regime lookup.
func RegimeFor(day int) Regime {
	return crisis2008Regimes.At(day)
}

// MessageFor is the 2008 narrative lookup.
func MessageFor(day int) string {
	return crisis2008Narrative.At(day)
}

func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if s.StartingCash < 0 {
		return fmt.Errorf("%w: starting_cash must be >= 0", ErrInvalidScenario)
	}
	if s.TickEvery <= 0 {
		return fmt.Errorf("%w: tick_every must be > 0", ErrInvalidScenario)
	}
	if len(s.Instruments) == 0 {
		return fmt.Errorf("%w: at least one instrument is required", ErrInvalidScenario)
	}
	for i, in := range s.Instruments {
		if strings.TrimSpace(in.Name) == "" {
			return fmt.Errorf("%w: instrument %d has no name", ErrInvalidScenario, i)
		}
		if in.InitialPrice <= 0 {
			return fmt.Errorf("%w: instrument %q initial_price must be > 0", ErrInvalidScenario, in.Name)
		}
	}
	if len(s.Regimes) == 0 || s.Regimes[0].FromDay != 0 {
		return fmt.Errorf("%w: regimes must start at day 0", ErrInvalidScenario)
	}
	for i, r := range s.Regimes {
		if r.Sign != 1 && r.Sign != -1 {
			return fmt.Errorf("%w: regime %d sign must be 1 or -1", ErrInvalidScenario, i)
		}
		if r.MaxMagnitude < 0 || r.MaxMagnitude >= 1 {
			return fmt.Errorf("%w: regime %d max_magnitude must be in [0, 1)", ErrInvalidScenario, i)
		}
		if i > 0 && r.FromDay <= s.Regimes[i-1].FromDay {
			return fmt.Errorf("%w: regimes must be ordered by from_day", ErrInvalidScenario)
		}
	}
	if len(s.Narrative) == 0 || s.Narrative[0].FromDay != 0 {
		return fmt.Errorf("%w: narrative must start at day 0", ErrInvalidScenario)
	}
	for i, p := range s.Narrative {
		if i > 0 && p.FromDay <= s.Narrative[i-1].FromDay {
			return fmt.Errorf("%w: narrative must be ordered by from_day", ErrInvalidScenario)
		}
	}
	return nil
}
