package reroll

import (
	"fmt"
	"strings"
)

// Buff is one of the nine catalog items a slot can hold.
type Buff uint8

const (
	Elemental Buff = iota
	HitRate
	MaxAmmo
	Attack
	ChargeDamage
	ChargeSpeed
	CritRate
	CritDamage
	Defense

	buffCount = iota
)

// percent weights, indexed by Buff. They are relative weights and need not sum to 100.
var buffWeights = [buffCount]float64{
	Elemental:    10.0,
	HitRate:      12.0,
	MaxAmmo:      12.0,
	Attack:       10.0,
	ChargeDamage: 12.0,
	ChargeSpeed:  12.0,
	CritRate:     12.0,
	CritDamage:   10.0,
	Defense:      10.0,
}

var buffNames = [buffCount]string{
	Elemental:    "Elemental",
	HitRate:      "HitRate",
	MaxAmmo:      "MaxAmmo",
	Attack:       "Attack",
	ChargeDamage: "ChargeDamage",
	ChargeSpeed:  "ChargeSpeed",
	CritRate:     "CritRate",
	CritDamage:   "CritDamage",
	Defense:      "Defense",
}

// Weight returns the buff's draw weight in percent.
func (b Buff) Weight() float64 {
	if !b.Valid() {
		return 0
	}
	return buffWeights[b]
}

// Valid reports whether b is a catalog member.
func (b Buff) Valid() bool { return int(b) < buffCount }

func (b Buff) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Buff(%d)", uint8(b))
	}
	return buffNames[b]
}

// Catalog returns every buff in draw order. The slice is a fresh copy.
func Catalog() []Buff {
	out := make([]Buff, buffCount)
	for i := range out {
		out[i] = Buff(i)
	}
	return out
}

// ParseBuff resolves a buff by name, ignoring case.
func ParseBuff(name string) (Buff, error) {
	for i, n := range buffNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Buff(i), nil
		}
	}
	return 0, fmt.Errorf("unknown buff %q", name)
}
