package game

// Registry holds one engine per game type and answers cross-type lookups
// (real-time moves arrive with only a match id).
type Registry struct {
	engines map[GameType]*Engine
}

// NewRegistry creates an engine registry with one engine per supported
// game type, all sharing the same collaborators.
func NewRegistry(deps EngineDeps) *Registry {
	reg := &Registry{engines: make(map[GameType]*Engine)}
	for _, gt := range []GameType{GameChess, GameConnectFour, GameDiamondHunt, GameTicTacToe, GameDice} {
		rules, _ := RulesFor(gt)
		engineDeps := deps
		engineDeps.Store = NewMemoryStore() // one store per engine, never shared
		reg.engines[gt] = NewEngine(rules, engineDeps)
	}
	return reg
}

// SetEvents attaches the real-time event sink to every engine.
func (r *Registry) SetEvents(events Events) {
	for _, e := range r.engines {
		e.SetEvents(events)
	}
}

// ByType returns the engine for a game type.
func (r *Registry) ByType(gt GameType) (*Engine, bool) {
	e, ok := r.engines[gt]
	return e, ok
}

// Find locates the engine holding a match by scanning each engine's
// store. Used by the real-time surface where moves carry no game type.
func (r *Registry) Find(matchID string) (*Engine, *GameSession, bool) {
	for _, e := range r.engines {
		if s, err := e.GetSession(matchID); err == nil {
			return e, s, true
		}
	}
	return nil, nil, false
}

// All returns every registered engine.
func (r *Registry) All() []*Engine {
	out := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e)
	}
	return out
}

// ActiveTotal sums live session counts across all engines.
func (r *Registry) ActiveTotal() int {
	total := 0
	for _, e := range r.engines {
		total += e.ActiveCount()
	}
	return total
}
