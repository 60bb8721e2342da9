package game

import "encoding/json"

// Rules is the per-game-type contract the engine drives. Implementations
// validate a move fully before mutating the session board; the engine has
// already verified session existence, liveness and turn ownership.
type Rules interface {
	Type() GameType

	// NewBoard builds the deterministic initial board.
	NewBoard() interface{}

	// ApplyMove validates and applies a move for playerID, returning a
	// game-specific move result. Returns an error wrapping ErrIllegalMove
	// when the move fails legality rules; the board must be untouched in
	// that case.
	ApplyMove(s *GameSession, playerID string, move json.RawMessage) (interface{}, error)

	// Evaluate inspects the board for a terminal condition.
	Evaluate(s *GameSession) WinResult
}

// RulesFor returns the rule set for a game type.
func RulesFor(gt GameType) (Rules, bool) {
	switch gt {
	case GameChess:
		return chessRules{}, true
	case GameConnectFour:
		return connectFourRules{}, true
	case GameDiamondHunt:
		return diamondHuntRules{}, true
	case GameTicTacToe:
		return ticTacToeRules{}, true
	case GameDice:
		return diceRules{}, true
	}
	return nil, false
}
