package reroll

// Extension says which optional slots take part in one reroll.
type Extension uint8

const (
	ExtendNone Extension = iota
	ExtendSecond
	ExtendThird
	ExtendBoth
)

// Second reports whether slot 1 is activated.
func (e Extension) Second() bool { return e == ExtendSecond || e == ExtendBoth }

// Third reports whether slot 2 is activated.
func (e Extension) Third() bool { return e == ExtendThird || e == ExtendBoth }

func (e Extension) String() string {
	switch e {
	case ExtendSecond:
		return "second"
	case ExtendThird:
		return "third"
	case ExtendBoth:
		return "both"
	default:
		return "none"
	}
}

const (
	DefaultSecondChance = 50.0
	DefaultThirdChance  = 30.0
)

// ExtensionPolicy flips two independent weighted coins per reroll.
// Chances are percentages compared against a uniform draw over [0, 100).
type ExtensionPolicy struct {
	SecondChance float64
	ThirdChance  float64
	RNG          RandomSource
}

// NewExtensionPolicy uses the default 50% / 30% chances; nil rng falls back to DefaultRNG.
func NewExtensionPolicy(rng RandomSource) *ExtensionPolicy {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &ExtensionPolicy{
		SecondChance: DefaultSecondChance,
		ThirdChance:  DefaultThirdChance,
		RNG:          rng,
	}
}

// Decide draws the second-slot coin first, then the third-slot coin.
func (p *ExtensionPolicy) Decide() Extension {
	second := p.RNG.Range(0, 100) < p.SecondChance
	third := p.RNG.Range(0, 100) < p.ThirdChance
	switch {
	case second && third:
		return ExtendBoth
	case second:
		return ExtendSecond
	case third:
		return ExtendThird
	default:
		return ExtendNone
	}
}
