package reroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xtding233/buff-reroll/internal/reroll"
)

func TestExtensionPolicy_Decide(t *testing.T) {
	cases := []struct {
		name          string
		second, third float64
		want          reroll.Extension
	}{
		{"both", 0.49, 0.29, reroll.ExtendBoth},
		{"second only", 0.10, 0.90, reroll.ExtendSecond},
		{"third only", 0.90, 0.10, reroll.ExtendThird},
		{"none at thresholds", 0.50, 0.30, reroll.ExtendNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := reroll.NewExtensionPolicy(reroll.NewScriptedRNG(tc.second, tc.third))
			got := p.Decide()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want == reroll.ExtendSecond || tc.want == reroll.ExtendBoth, got.Second())
			assert.Equal(t, tc.want == reroll.ExtendThird || tc.want == reroll.ExtendBoth, got.Third())
		})
	}
}

func TestExtensionPolicy_Frequencies(t *testing.T) {
	const n = 100000
	p := reroll.NewExtensionPolicy(reroll.NewSeededRNG(7))
	count := map[reroll.Extension]int{}
	for i := 0; i < n; i++ {
		count[p.Decide()]++
	}
	// 0.5*0.7, 0.5*0.7, 0.5*0.3, 0.5*0.3
	expect := map[reroll.Extension]float64{
		reroll.ExtendNone:   0.35,
		reroll.ExtendSecond: 0.35,
		reroll.ExtendThird:  0.15,
		reroll.ExtendBoth:   0.15,
	}
	for ext, want := range expect {
		got := float64(count[ext]) / n
		assert.InDelta(t, want, got, 0.01, "extension %s", ext)
	}
}
