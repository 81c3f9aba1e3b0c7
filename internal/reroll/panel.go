package reroll

import (
	"fmt"

	"github.com/xtding233/buff-reroll/internal/token"
)

// SlotCount is the fixed number of slots on a panel.
const SlotCount = 3

// MaxLockCount caps how many slots may be locked at once.
const MaxLockCount = 2

// SlotState is the tag of a slot.
type SlotState uint8

const (
	SlotEmpty SlotState = iota
	SlotFree
	SlotLocked
)

func (s SlotState) String() string {
	switch s {
	case SlotFree:
		return "free"
	case SlotLocked:
		return "locked"
	default:
		return "empty"
	}
}

// Slot holds one panel position. Buff is meaningful only when State != SlotEmpty.
type Slot struct {
	State SlotState
	Buff  Buff
}

// Filled reports whether the slot holds a buff.
func (s Slot) Filled() bool { return s.State != SlotEmpty }

func (s Slot) String() string {
	if !s.Filled() {
		return "-"
	}
	if s.State == SlotLocked {
		return s.Buff.String() + "*"
	}
	return s.Buff.String()
}

// Panel is the 3-slot buff panel. It is mutated in place for the life of one
// trial and is not safe for concurrent use.
//
// Slots move Empty -> Free on reroll, Free -> Free on redraw and Free -> Locked
// on Lock. A locked slot never changes again.
type Panel struct {
	slots         [SlotCount]Slot
	attempts      int // number of rerolls performed
	customModules int // units spent on rerolls and locks

	Sampler   *Sampler
	Extension *ExtensionPolicy
	Fees      token.Token
}

// PanelOption tweaks a panel at construction.
type PanelOption func(*Panel)

// WithFees replaces the custom module fee schedule.
func WithFees(t token.Token) PanelOption {
	return func(p *Panel) { p.Fees = t }
}

// WithExtensionChances overrides the slot 2 / slot 3 activation percentages.
func WithExtensionChances(second, third float64) PanelOption {
	return func(p *Panel) {
		p.Extension.SecondChance = second
		p.Extension.ThirdChance = third
	}
}

// NewPanel creates an empty panel whose sampler and extension policy share rng.
// A nil rng falls back to DefaultRNG.
func NewPanel(rng RandomSource, opts ...PanelOption) *Panel {
	if rng == nil {
		rng = DefaultRNG()
	}
	p := &Panel{
		Sampler:   NewSampler(rng),
		Extension: NewExtensionPolicy(rng),
		Fees:      token.CustomModule,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reroll charges the reroll fee, then redraws slot 0 and whichever of slots 1
// and 2 the extension policy activates. Locked slots are skipped and their
// buffs are not drawable. The candidate set shrinks with every draw, so one
// reroll never places the same buff twice.
func (p *Panel) Reroll() error {
	locked := p.LockedCount()
	p.attempts++
	p.customModules += p.Fees.RerollCost(locked)

	candidates := Catalog()
	for _, s := range p.slots {
		if s.State == SlotLocked {
			candidates = without(candidates, s.Buff)
		}
	}

	var err error
	if candidates, err = p.redraw(0, candidates); err != nil {
		return err
	}

	ext := p.Extension.Decide()
	if ext.Second() {
		if candidates, err = p.redraw(1, candidates); err != nil {
			return err
		}
	}
	if ext.Third() {
		if _, err = p.redraw(2, candidates); err != nil {
			return err
		}
	}
	return nil
}

// redraw fills an unlocked slot from candidates and returns the remaining candidates.
func (p *Panel) redraw(pos int, candidates []Buff) ([]Buff, error) {
	if p.slots[pos].State == SlotLocked {
		return candidates, nil
	}
	b, err := p.Sampler.Choose(candidates)
	if err != nil {
		return candidates, fmt.Errorf("slot %d: %w", pos, err)
	}
	p.slots[pos] = Slot{State: SlotFree, Buff: b}
	return without(candidates, b), nil
}

// Lock turns a free slot into a locked one and charges the escalating lock fee.
// Locking an empty or already locked slot, or locking once MaxLockCount slots
// are held, changes nothing and costs nothing.
func (p *Panel) Lock(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	if p.slots[pos].State != SlotFree {
		return nil
	}
	locked := p.LockedCount()
	if locked >= MaxLockCount {
		return nil
	}
	p.slots[pos].State = SlotLocked
	p.customModules += p.Fees.LockCost(locked)
	return nil
}

// SetBuff force-assigns a free buff to pos without charging or checking for
// duplicates. It is meant for seeding a known starting panel. Locked slots are
// left untouched.
func (p *Panel) SetBuff(pos int, b Buff) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	if p.slots[pos].State == SlotLocked {
		return nil
	}
	p.slots[pos] = Slot{State: SlotFree, Buff: b}
	return nil
}

// HasBuff reports whether any filled slot holds b.
func (p *Panel) HasBuff(b Buff) bool {
	_, ok := p.PositionOf(b)
	return ok
}

// PositionOf returns the first filled slot holding b.
func (p *Panel) PositionOf(b Buff) (int, bool) {
	for i, s := range p.slots {
		if s.Filled() && s.Buff == b {
			return i, true
		}
	}
	return -1, false
}

// HasAll reports whether every buff in want is present. Extra buffs on the panel are fine.
func (p *Panel) HasAll(want []Buff) bool {
	for _, b := range want {
		if !p.HasBuff(b) {
			return false
		}
	}
	return true
}

// Slot returns the slot at pos; out-of-range positions read as empty.
func (p *Panel) Slot(pos int) Slot {
	if checkPosition(pos) != nil {
		return Slot{}
	}
	return p.slots[pos]
}

// Slots returns a copy of all slots.
func (p *Panel) Slots() [SlotCount]Slot { return p.slots }

// Buffs lists the buffs present, in slot order.
func (p *Panel) Buffs() []Buff {
	out := make([]Buff, 0, SlotCount)
	for _, s := range p.slots {
		if s.Filled() {
			out = append(out, s.Buff)
		}
	}
	return out
}

// LockedCount returns the number of locked slots.
func (p *Panel) LockedCount() int {
	n := 0
	for _, s := range p.slots {
		if s.State == SlotLocked {
			n++
		}
	}
	return n
}

// PopulatedCount returns the number of filled slots.
func (p *Panel) PopulatedCount() int {
	n := 0
	for _, s := range p.slots {
		if s.Filled() {
			n++
		}
	}
	return n
}

// Attempts returns the number of rerolls performed.
func (p *Panel) Attempts() int { return p.attempts }

// CustomModules returns the units spent so far.
func (p *Panel) CustomModules() int { return p.customModules }

func (p *Panel) String() string {
	return fmt.Sprintf("[%s | %s | %s] attempts=%d modules=%d",
		p.slots[0], p.slots[1], p.slots[2], p.attempts, p.customModules)
}

func checkPosition(pos int) error {
	if pos < 0 || pos >= SlotCount {
		return fmt.Errorf("%w: slot %d out of range [0,%d)", ErrInvariantViolation, pos, SlotCount)
	}
	return nil
}
