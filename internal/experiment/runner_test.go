package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xtding233/buff-reroll/internal/reroll"
)

func TestConfig_Normalize(t *testing.T) {
	cfg, err := Config{Targets: []reroll.Buff{reroll.Attack}}.normalize()
	require.NoError(t, err)
	assert.Equal(t, GoalCost, cfg.Goal)
	assert.Equal(t, PolicyNoLock, cfg.Policy)
	assert.Equal(t, DefaultTrials, cfg.Trials)

	bad := []Config{
		{Goal: "luck"},
		{Policy: "hoard"},
		{Trials: -1},
		{MaxAttempts: -3},
		{Targets: []reroll.Buff{reroll.Attack, reroll.Attack}},
		{Targets: []reroll.Buff{reroll.Attack, reroll.MaxAmmo, reroll.Defense, reroll.HitRate}},
		{Targets: []reroll.Buff{reroll.Buff(99)}},
		{Seeds: []Seed{{Slot: 3, Buff: reroll.Attack}}},
	}
	for _, c := range bad {
		_, err := c.normalize()
		assert.ErrorIs(t, err, ErrInvalidConfig, "config %+v", c)
	}
}

func TestRun_CostTerminatesWithTargets(t *testing.T) {
	r := NewRunner(WithSeed(1))
	for _, policy := range []Policy{PolicyNoLock, PolicyLockOnAcquire} {
		st, err := r.Run(context.Background(), []reroll.Buff{reroll.Attack, reroll.MaxAmmo}, policy, 2000)
		require.NoError(t, err)
		assert.Equal(t, 2000, st.Count)
		assert.Greater(t, st.Mean, 1.0, "policy %s", policy)
		assert.False(t, math.IsNaN(st.Mean) || math.IsInf(st.Mean, 0), "mean must be finite")
		assert.Greater(t, st.StdDev, 0.0)
	}
}

func TestRun_BothPoliciesReportedIndependently(t *testing.T) {
	r := NewRunner(WithSeed(99), WithWorkers(4))
	targets := []reroll.Buff{reroll.Attack, reroll.MaxAmmo}
	noLock, err := r.Run(context.Background(), targets, PolicyNoLock, 5000)
	require.NoError(t, err)
	withLock, err := r.Run(context.Background(), targets, PolicyLockOnAcquire, 5000)
	require.NoError(t, err)

	assert.Positive(t, noLock.Mean)
	assert.Positive(t, withLock.Mean)
}

func TestSimulateOne_SingleTargetCountsLockedRerolls(t *testing.T) {
	// all-zero draws put Elemental, HitRate and MaxAmmo on the first reroll
	cfg, err := Config{Targets: []reroll.Buff{reroll.HitRate}, Policy: PolicyLockOnAcquire, Trials: 1}.normalize()
	require.NoError(t, err)
	v, err := simulateOne(cfg, reroll.NewScriptedRNG(0))
	require.NoError(t, err)
	// reroll 1 + lock 2, paid on the final reroll as well
	assert.Equal(t, 3.0, v)

	cfg.Policy = PolicyNoLock
	v, err = simulateOne(cfg, reroll.NewScriptedRNG(0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestSimulateOne_SupersetSatisfiesTargets(t *testing.T) {
	cfg, err := Config{Goal: GoalAttempts, Targets: []reroll.Buff{reroll.Elemental}, Trials: 1}.normalize()
	require.NoError(t, err)
	v, err := simulateOne(cfg, reroll.NewScriptedRNG(0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestSimulateOne_SeedsArePaidAndKept(t *testing.T) {
	cfg, err := Config{
		Targets: []reroll.Buff{reroll.Attack, reroll.HitRate},
		Policy:  PolicyLockOnAcquire,
		Seeds:   []Seed{{Slot: 0, Buff: reroll.Attack, Lock: true}},
		Trials:  1,
	}.normalize()
	require.NoError(t, err)

	// lock Attack: 2; reroll with one lock: 2; slots 1/2 get Elemental, HitRate;
	// HitRate lock with one lock held: 3
	v, err := simulateOne(cfg, reroll.NewScriptedRNG(0))
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestSimulateOne_AttemptLimit(t *testing.T) {
	// slot 1 and 2 never activate, so two targets never show together
	cfg, err := Config{
		Targets:     []reroll.Buff{reroll.Attack, reroll.MaxAmmo},
		MaxAttempts: 25,
		Trials:      1,
	}.normalize()
	require.NoError(t, err)
	_, err = simulateOne(cfg, reroll.NewScriptedRNG(0.5, 0.99, 0.99))
	assert.ErrorIs(t, err, ErrAttemptLimit)
}

func TestRunConfig_SlotsShownDistribution(t *testing.T) {
	r := NewRunner(WithSeed(2024), WithWorkers(3))
	rep, err := r.RunConfig(context.Background(), Config{Name: "slots", Goal: GoalSlotsShown, Trials: 60000})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Workers)
	assert.NotEmpty(t, rep.RunID)
	assert.Zero(t, rep.Stats.Share(0))
	assert.InDelta(t, 0.35, rep.Stats.Share(1), 0.015)
	assert.InDelta(t, 0.50, rep.Stats.Share(2), 0.015)
	assert.InDelta(t, 0.15, rep.Stats.Share(3), 0.015)
}

func TestRunConfig_HitRate(t *testing.T) {
	r := NewRunner(WithSeed(5))
	rep, err := r.RunConfig(context.Background(), Config{
		Name:    "hit",
		Goal:    GoalHitRate,
		Targets: []reroll.Buff{reroll.Attack, reroll.ChargeSpeed},
		Trials:  20000,
	})
	require.NoError(t, err)
	assert.Greater(t, rep.Stats.Mean, 0.0)
	assert.Less(t, rep.Stats.Mean, 0.2)
	for v := range rep.Stats.Histogram {
		assert.Contains(t, []int{0, 1}, v)
	}
}

func TestRunInto_ReproducibleForSeedAndWorkers(t *testing.T) {
	cfg := Config{Name: "repro", Targets: []reroll.Buff{reroll.CritRate}, Policy: PolicyLockOnAcquire, Trials: 3000}

	a, b := NewSamples(0), NewSamples(0)
	require.NoError(t, NewRunner(WithSeed(77), WithWorkers(4)).RunInto(context.Background(), cfg, a))
	require.NoError(t, NewRunner(WithSeed(77), WithWorkers(4)).RunInto(context.Background(), cfg, b))

	assert.Equal(t, a.Values(), b.Values())
	assert.Equal(t, 3000, a.Count())
}

func TestRunInto_InvalidConfig(t *testing.T) {
	err := NewRunner().RunInto(context.Background(), Config{Goal: "nope"}, NewSamples(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunConfig_PropagatesAttemptLimit(t *testing.T) {
	r := NewRunner(WithRNG(func(int) reroll.RandomSource { return reroll.NewScriptedRNG(0.5, 0.99, 0.99) }), WithWorkers(2))
	_, err := r.RunConfig(context.Background(), Config{
		Name:        "stuck",
		Targets:     []reroll.Buff{reroll.Attack, reroll.MaxAmmo},
		MaxAttempts: 10,
		Trials:      4,
	})
	assert.ErrorIs(t, err, ErrAttemptLimit)
}

func TestRunConfig_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(WithSeed(1)).RunConfig(ctx, Config{Name: "canceled", Trials: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunConfig_LogsStartAndFinish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewRunner(WithSeed(3), WithLogger(zap.New(core)))
	_, err := r.RunConfig(context.Background(), Config{Name: "logged", Goal: GoalSlotsShown, Trials: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("experiment started").Len())
	finished := logs.FilterMessage("experiment finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "logged", finished[0].ContextMap()["experiment"])
}
