package core

import "testing"

func TestInputFrameOrdered(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRemote)
	f.Set(ActionLeft)
	f.Set(ActionBomb)

	got := f.Ordered()
	expected := []Action{ActionLeft, ActionBomb, ActionRemote}
	if len(got) != len(expected) {
		t.Fatalf("Ordered() = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Ordered()[%d] = %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestMultiInputFrameAny(t *testing.T) {
	m := NewMultiInputFrame()
	m.Add(Player1, ActionUp)
	m.Add(Player2, ActionBomb)

	merged := m.Any()
	if !merged.Has(ActionUp) || !merged.Has(ActionBomb) {
		t.Errorf("Any() should merge actions of all players, got %v", merged.Ordered())
	}
	if m.Player(Player3).Has(ActionUp) {
		t.Error("Player3 should have no input")
	}

	m.Clear()
	if !m.Player(Player1).Empty() {
		t.Error("Clear() should reset every player frame")
	}
}

func TestPlayerActionsOrder(t *testing.T) {
	if len(PlayerActions) != 8 {
		t.Fatalf("expected 8 player actions, got %d", len(PlayerActions))
	}
	for _, a := range PlayerActions {
		if !a.IsPlayerAction() {
			t.Errorf("%v should be a player action", a)
		}
	}
	if ActionConfirm.IsPlayerAction() {
		t.Error("Confirm is a menu action")
	}
	if PlayerFromIndex(2) != Player3 || Player3.Index() != 2 {
		t.Error("PlayerID index conversion is inconsistent")
	}
}
