package world

// Snapshot captures the round state for determinism testing and for online
// spectators. Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       int
	EndCounter int
	Flash      bool
	Shake      int
	Exited     bool

	// Level is the raw map, row-major.
	Level []byte
	// Dark marks fogged cells; nil when darkness is off.
	Dark []bool

	Actors  []ActorSnapshot
	Players []PlayerSnapshot
}

// ActorSnapshot is the visible state of an actor.
type ActorSnapshot struct {
	Kind      ActorKind
	Owner     int
	X, Y      int
	Facing    Direction
	Animation int
	Health    int
	MaxHealth int
	Dead      bool
	Digging   bool
}

// PlayerSnapshot is the panel state of a player.
type PlayerSnapshot struct {
	Name      string
	Cash      int
	Collected int
	Lives     int
	Selection Equipment
	Count     int
	Drilling  int
}

// Snapshot returns the current round state.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       w.RoundCounter,
		EndCounter: w.EndCounter,
		Flash:      w.Flash,
		Shake:      w.Shake,
		Exited:     w.Exited,
		Level:      make([]byte, 0, MapRows*MapCols),
	}
	for c := range AllCursors() {
		snap.Level = append(snap.Level, byte(w.Level.At(c)))
	}
	if w.opts.Darkness {
		snap.Dark = make([]bool, 0, MapRows*MapCols)
		for c := range AllCursors() {
			snap.Dark = append(snap.Dark, w.Fog.At(c).Dark)
		}
	}

	for i := range w.Actors {
		a := &w.Actors[i]
		snap.Actors = append(snap.Actors, ActorSnapshot{
			Kind:      a.Kind,
			Owner:     a.Owner,
			X:         a.Pos.X,
			Y:         a.Pos.Y,
			Facing:    a.Facing,
			Animation: a.Animation,
			Health:    a.Health,
			MaxHealth: a.MaxHealth,
			Dead:      a.Dead,
			Digging:   w.Digging(i),
		})
	}
	for i, p := range w.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Name:      p.Stats.Name,
			Cash:      p.Cash,
			Collected: w.Actors[i].AccumulatedCash,
			Lives:     p.Lives,
			Selection: p.Selection,
			Count:     p.Inventory[p.Selection],
			Drilling:  w.Actors[i].Drilling,
		})
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Tick)                  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EndCounter)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Shake)           //#nosec G115 -- hash computation
	h = h*31 + uint64(boolInt(snap.Flash))  //#nosec G115 -- hash computation
	h = h*31 + uint64(boolInt(snap.Exited)) //#nosec G115 -- hash computation

	for _, v := range snap.Level {
		h = h*31 + uint64(v)
	}
	for _, a := range snap.Actors {
		h = h*31 + uint64(a.X)      //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Y)      //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Health) //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Facing)
		h = h*31 + uint64(boolInt(a.Dead)) //#nosec G115 -- hash computation
	}
	for _, p := range snap.Players {
		h = h*31 + uint64(p.Cash)      //#nosec G115 -- hash computation
		h = h*31 + uint64(p.Collected) //#nosec G115 -- hash computation
		h = h*31 + uint64(p.Count)     //#nosec G115 -- hash computation
	}
	return h
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
