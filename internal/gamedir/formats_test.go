package gamedir

import (
	"bytes"
	"testing"
	"time"

	"github.com/vovakirdan/minebombers/internal/world"
)

func TestOptionsRoundTrip(t *testing.T) {
	d := newInstall(t)
	if got := d.Options(); got != DefaultOptions() {
		t.Errorf("missing file: %+v, want defaults", got)
	}

	o := Options{
		Players: 4, Treasures: 60, Rounds: 20, Cash: 1000,
		RoundTime: 300 * time.Second, Speed: 5,
		Darkness: true, Selling: true, Win: WinByWins, BombDamage: 80,
	}
	if got := len(o.Bytes()); got != optionsSize {
		t.Fatalf("Bytes() len = %d, want %d", got, optionsSize)
	}
	if err := d.SaveOptions(o); err != nil {
		t.Fatal(err)
	}
	if got := d.Options(); got != o {
		t.Errorf("round trip: %+v, want %+v", got, o)
	}
}

func TestParseOptionsClamps(t *testing.T) {
	data := Options{Players: 2, Treasures: 10, Rounds: 5, Cash: 100, Speed: 1, BombDamage: 50}.Bytes()
	data[0] = 9    // players
	data[1] = 200  // treasures
	data[2] = 0xFF // rounds low byte
	data[16] = 250 // bomb damage

	got := ParseOptions(data)
	if got.Players != 2 || got.Treasures != 75 || got.Rounds != 55 || got.BombDamage != 100 {
		t.Errorf("clamped = %+v", got)
	}

	if got := ParseOptions(data[:10]); got != DefaultOptions() {
		t.Errorf("short data: %+v, want defaults", got)
	}

	// zero rounds reads as one, the least the options menu can set
	data[2], data[3] = 0, 0
	if got := ParseOptions(data); got.Rounds != 1 {
		t.Errorf("zero rounds = %d, want 1", got.Rounds)
	}
}

func TestTickPercent(t *testing.T) {
	tests := []struct {
		speed int
		want  int
	}{
		{0, 100},
		{8, 76},
		{33, 1},
	}
	for _, tt := range tests {
		if got := (Options{Speed: tt.speed}).TickPercent(); got != tt.want {
			t.Errorf("TickPercent(speed %d) = %d, want %d", tt.speed, got, tt.want)
		}
	}
}

func TestRoundTimeTicks(t *testing.T) {
	// 420 s is 7644 ticks at 18.2 Hz
	if got := durationToTicks(420 * time.Second); got != 7644 {
		t.Errorf("durationToTicks = %d, want 7644", got)
	}
	if got := ticksToDuration(7644); got != 420*time.Second {
		t.Errorf("ticksToDuration = %v, want 7m0s", got)
	}
}

func TestRosterRoundTrip(t *testing.T) {
	d := newInstall(t)
	r, err := d.Roster()
	if err != nil {
		t.Fatal(err)
	}
	if r.Find("anyone") != -1 {
		t.Error("empty roster found a player")
	}

	idx := r.Add("Kärpänen")
	r.Players[idx].Rounds = 12
	r.Players[idx].MetersRan = 123456
	r.Players[idx].History[3] = 77
	r.Add("Bob")
	r.Remove(r.Add("Gone"))

	data := r.Bytes()
	if len(data) != RosterSize*recordSize {
		t.Fatalf("Bytes() len = %d", len(data))
	}
	if err := d.SaveRoster(r); err != nil {
		t.Fatal(err)
	}

	loaded, err := d.Roster()
	if err != nil {
		t.Fatal(err)
	}
	got := loaded.Players[loaded.Find("Kärpänen")]
	if got == nil {
		t.Fatal("player lost in round trip")
	}
	if got.Rounds != 12 || got.MetersRan != 123456 || got.History[3] != 77 {
		t.Errorf("record = %+v", got)
	}
	if loaded.Find("Bob") != 1 || loaded.Find("Gone") != -1 {
		t.Error("slots not preserved")
	}
	if !bytes.Equal(loaded.Bytes(), data) {
		t.Error("re-encoding differs")
	}
}

func TestRosterMerge(t *testing.T) {
	r := &Roster{}
	idx := r.Add("Ann")
	r.Players[idx].MergeTournament(world.Stats{Tournaments: 1, TournamentsWins: 1, Rounds: 2, RoundsWins: 2})
	if got := r.Players[idx]; got.TournamentsWins != 1 || got.History[0] != 64 {
		t.Errorf("merged = %+v", got)
	}
}

func TestParseRosterWrongSize(t *testing.T) {
	r := ParseRoster(make([]byte, 100))
	for i, p := range r.Players {
		if p != nil {
			t.Fatalf("slot %d not empty", i)
		}
	}
}

func TestHighscores(t *testing.T) {
	d := newInstall(t)
	h, err := d.Highscores()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		score Score
		rank  int
	}{
		{Score{Name: "mid", Level: 3, Cash: 500}, 0},
		{Score{Name: "top", Level: 9, Cash: 900}, 0},
		{Score{Name: "low", Level: 1, Cash: 100}, 2},
	}
	for _, tt := range tests {
		if got := h.Insert(tt.score); got != tt.rank {
			t.Errorf("Insert(%s) rank = %d, want %d", tt.score.Name, got, tt.rank)
		}
	}
	for i := 3; i < HighscoreSlots; i++ {
		h.Insert(Score{Name: "filler", Cash: 200})
	}
	if got := h.Insert(Score{Name: "tiny", Cash: 50}); got != -1 {
		t.Errorf("Insert(tiny) rank = %d, want -1", got)
	}

	if err := d.SaveHighscores(h); err != nil {
		t.Fatal(err)
	}
	loaded, err := d.Highscores()
	if err != nil {
		t.Fatal(err)
	}
	first := loaded.Scores[0]
	if first == nil || first.Name != "top" || first.Level != 9 || first.Cash != 900 {
		t.Errorf("first = %+v", first)
	}
	if last := loaded.Scores[HighscoreSlots-1]; last == nil || last.Name != "low" {
		t.Errorf("last = %+v, want low", last)
	}
}

func TestHighscoreNamePrefix(t *testing.T) {
	h := &Highscores{}
	h.Insert(Score{Name: "A very long player name", Cash: 1})
	data := h.Bytes()
	if data[0] != scoreName+2 || data[1] != '1' || data[2] != ' ' {
		t.Errorf("header = %v", data[:3])
	}
	if got := ParseHighscores(data).Scores[0].Name; got != "A very long player" {
		t.Errorf("name = %q", got)
	}
}

func TestIdentities(t *testing.T) {
	d := newInstall(t)
	if got := d.Identities(); got != NoIdentities {
		t.Errorf("missing file = %v", got)
	}

	ids := Identities{0, 31, -1, 5}
	if err := d.SaveIdentities(ids); err != nil {
		t.Fatal(err)
	}
	if got := d.Identities(); got != ids {
		t.Errorf("round trip = %v, want %v", got, ids)
	}

	if got := ParseIdentities([]byte{0, 200, 1, 0}); got != (Identities{-1, 31, 0, -1}) {
		t.Errorf("clamped = %v", got)
	}
}
