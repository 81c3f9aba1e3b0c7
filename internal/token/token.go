package token

// Token defines how many units a reroll panel charges per action

type Token struct {
	Name          string // e.g. "Custom Module"
	RerollBase    int    // units per reroll with nothing locked
	PerLockedSlot int    // surcharge per locked slot on every reroll
	LockBase      int    // fee of the first lock; each further lock costs one more
}

// CustomModule is the fee schedule of the buff reroll panel:
// reroll = 1 + locked slots, lock = 2 + slots already locked.
var CustomModule = Token{
	Name:          "Custom Module",
	RerollBase:    1,
	PerLockedSlot: 1,
	LockBase:      2,
}

// RerollCost returns the units charged for one reroll with `locked` slots held.
func (t Token) RerollCost(locked int) int {
	if locked < 0 {
		locked = 0
	}
	return t.RerollBase + t.PerLockedSlot*locked
}

// LockCost returns the units charged for a lock when `lockedBefore` slots are already locked.
func (t Token) LockCost(lockedBefore int) int {
	if lockedBefore < 0 {
		lockedBefore = 0
	}
	return t.LockBase + lockedBefore
}

// ModulesForRerolls returns how many units n rerolls cost with a fixed lock count
func (t Token) ModulesForRerolls(n, locked int) int {
	if n <= 0 {
		return 0
	}
	return n * t.RerollCost(locked)
}
