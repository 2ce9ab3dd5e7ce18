package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParent_EveryStateReachesRoot(t *testing.T) {
	for _, s := range States() {
		if s == StateRoleSelect {
			_, ok := Parent(s)
			assert.False(t, ok, "root must not have a parent")
			continue
		}

		seen := map[State]bool{s: true}
		cur := s
		for cur != StateRoleSelect {
			parent, ok := Parent(cur)
			require.True(t, ok, "state %s has no parent", cur)
			require.False(t, seen[parent], "cycle through %s", parent)
			seen[parent] = true
			cur = parent
		}
	}
}

func TestParent_Canonical(t *testing.T) {
	cases := map[State]State{
		StateBarmanItem:         StateBarmanCategory,
		StateBarmanQuantity:     StateBarmanItem,
		StateThresholdValue:     StateThresholdItem,
		StateThresholdMode:      StateDodepMenu,
		StateReceiveCategory:    StateReceiveMenu,
		StateNewProductQuantity: StateNewProductName,
		StateExpiryDateQty:      StateExpiryItem,
		StateStatsMenu:          StateAdminMenu,
	}
	for s, want := range cases {
		got, ok := Parent(s)
		require.True(t, ok)
		assert.Equal(t, want, got, "parent of %s", s)
	}
}

func TestSessionEnter_TrimsFlow(t *testing.T) {
	sess := Session{State: StateBarmanQuantity, Flow: BarmanFlow{Category: "wine", Product: "Aperol"}, Page: 2}

	sess.enter(StateBarmanItem)
	assert.Equal(t, BarmanFlow{Category: "wine"}, sess.Flow)
	assert.Equal(t, 0, sess.Page)

	sess.enter(StateAdminMenu)
	assert.Nil(t, sess.Flow)
}

func TestAcceptsText(t *testing.T) {
	assert.True(t, StateExpiryDateQty.acceptsText())
	assert.True(t, StateNewProductName.acceptsText())
	assert.False(t, StateBarmanItem.acceptsText())
	assert.False(t, StateRoleSelect.acceptsText())
}
