package skins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinledger/core/reconcile"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want reconcile.Classification
	}{
		{
			name: "AK-47 | Redline (Field-Tested)",
			rule: "weapon",
			want: reconcile.Classification{Category: "ak47", Subname: "Redline", Variant: "ft"},
		},
		{
			name: "StatTrak™ M4A1-S | Hyper Beast (Minimal Wear)",
			rule: "weapon",
			want: reconcile.Classification{Category: "m4a1s", Subname: "Hyper Beast", Variant: "mw"},
		},
		{
			name: "★ Karambit | Doppler (Factory New)",
			rule: "weapon",
			want: reconcile.Classification{Category: "karambit", Subname: "Doppler", Variant: "fn"},
		},
		{
			name: "★ Sport Gloves | Pandora's Box (Well-Worn)",
			rule: "weapon",
			want: reconcile.Classification{Category: "sportgloves", Subname: "Pandora's Box", Variant: "ww"},
		},
		{
			name: "Sealed Graffiti | Tag (Monster Purple)",
			rule: "graffiti",
			want: reconcile.Classification{Category: "graffiti", Subname: "Tag (Monster Purple)"},
		},
		{
			name: "Chroma 2 Case",
			rule: "case",
			want: reconcile.Classification{Category: "case", Subname: "Chroma 2"},
		},
		{
			name: "Sticker | Crown (Foil)",
			rule: "sticker",
			want: reconcile.Classification{Category: "sticker", Subname: "Crown (Foil)"},
		},
		{
			name: "Patch | Phoenix",
			rule: "sticker",
			want: reconcile.Classification{Category: "patch", Subname: "Phoenix"},
		},
		{
			name: "Paris 2023 Legends Sticker Capsule",
			rule: "capsule",
			want: reconcile.Classification{Category: "capsule", Subname: "Paris 2023 Legends Sticker"},
		},
		{
			name: "Operation Breakout Weapon Case Key",
			rule: "key",
			want: reconcile.Classification{Category: "key", Subname: "Operation Breakout Weapon Case"},
		},
		{
			name: "Howl Pin",
			rule: "pin",
			want: reconcile.Classification{Category: "pin", Subname: "Howl"},
		},
		{
			name: "Music Kit | AWOLNATION, I Am",
			rule: "music kit",
			want: reconcile.Classification{Category: "music kit", Subname: "AWOLNATION, I Am"},
		},
		{
			name: "Stockholm 2021 Viewer Pass",
			rule: "pass",
			want: reconcile.Classification{Category: "pass", Subname: "Stockholm 2021 Viewer Pass"},
		},
		{
			name: "Cmdr. Mae 'Dead Cold' Jamison | SWAT",
			rule: "agent",
			want: reconcile.Classification{Category: "agent", Subname: "Cmdr. Mae 'Dead Cold' Jamison"},
		},
		{
			name: "The 2018 Inferno Collection",
			rule: "collection",
			want: reconcile.Classification{Category: "collection", Subname: "The 2018 Inferno Collection"},
		},
		{
			name: "StatTrak™ Swap Tool",
			rule: "swap tool",
			want: reconcile.Classification{Category: "swap tool", Subname: "StatTrak Swap Tool"},
		},
		{
			name: "Name Tag",
			rule: "misc",
			want: reconcile.Classification{Category: "misc", Subname: "Name Tag"},
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rule, c.RuleFor(tt.name))
			assert.Equal(t, tt.want, c.Classify(tt.name))
		})
	}
}

func TestClassifyUnknownWeaponFallsBackToCompactLabel(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("Railgun 9000 | Vapor (Field-Tested)")
	assert.Equal(t, "railgun9000", got.Category)
	assert.Equal(t, "Vapor", got.Subname)
	assert.Equal(t, "ft", got.Variant)
}

func TestClassifyIsDeterministicAndTotal(t *testing.T) {
	c := NewClassifier()
	inputs := []string{
		"", " ", "★", "|||", "Karambit", "AK-47 | Redline (Field-Tested)",
		"completely made up nonsense", "(Field-Tested)", "Sticker |",
	}
	for _, in := range inputs {
		first := c.Classify(in)
		second := c.Classify(in)
		require.Equal(t, first, second, "input %q must classify deterministically", in)
		assert.NotEmpty(t, first.Category, "input %q must always get a category", in)
	}
}

func TestRulesEndWithCatchAll(t *testing.T) {
	rules := NewClassifier().Rules()
	require.NotEmpty(t, rules)
	last := rules[len(rules)-1]
	assert.Equal(t, "misc", last.Name)
	assert.True(t, last.Match(parsedName{Raw: "anything", Norm: "anything"}))
}
