package game

import (
	"encoding/json"
	"math/rand"
)

const (
	diceRoundsMax  = 5
	diceWinsTarget = 3
)

// DiceRound holds both players' roll totals for one round. A total of 0
// means the player has not rolled yet.
type DiceRound struct {
	Totals map[string]int `json:"totals"`
}

// DiceBoard is a best-of-five roll-off score sheet.
type DiceBoard struct {
	Rounds []DiceRound    `json:"rounds"`
	Wins   map[string]int `json:"wins"`
}

type diceRules struct{}

func (diceRules) Type() GameType { return GameDice }

func (diceRules) NewBoard() interface{} {
	return &DiceBoard{
		Rounds: []DiceRound{},
		Wins:   make(map[string]int),
	}
}

// completedRounds counts rounds where both players have rolled.
func (b *DiceBoard) completedRounds(s *GameSession) int {
	n := 0
	for _, r := range b.Rounds {
		if r.Totals[s.Player1] > 0 && r.Totals[s.Player2] > 0 {
			n++
		}
	}
	return n
}

// ApplyMove rolls two dice server-side for the current player. The move
// payload carries no data; the server is the only source of randomness.
func (diceRules) ApplyMove(s *GameSession, playerID string, move json.RawMessage) (interface{}, error) {
	board := s.Board.(*DiceBoard)

	// Open a new round when the last one is complete (or none exists).
	if len(board.Rounds) == 0 || board.Rounds[len(board.Rounds)-1].Totals[playerID] > 0 {
		board.Rounds = append(board.Rounds, DiceRound{Totals: make(map[string]int)})
	}
	round := &board.Rounds[len(board.Rounds)-1]

	d1, d2 := rand.Intn(6)+1, rand.Intn(6)+1
	total := d1 + d2
	round.Totals[playerID] = total

	roundOver := round.Totals[s.Player1] > 0 && round.Totals[s.Player2] > 0
	var roundWinner string
	if roundOver {
		p1, p2 := round.Totals[s.Player1], round.Totals[s.Player2]
		switch {
		case p1 > p2:
			roundWinner = s.Player1
		case p2 > p1:
			roundWinner = s.Player2
		}
		if roundWinner != "" {
			board.Wins[roundWinner]++
		}
	}

	return map[string]interface{}{
		"dice":        []int{d1, d2},
		"total":       total,
		"round":       len(board.Rounds),
		"roundOver":   roundOver,
		"roundWinner": roundWinner,
	}, nil
}

// Evaluate ends the match at three round wins, or after five completed
// rounds on round-win comparison (equal counts draw).
func (diceRules) Evaluate(s *GameSession) WinResult {
	board := s.Board.(*DiceBoard)

	for _, playerID := range []string{s.Player1, s.Player2} {
		if board.Wins[playerID] >= diceWinsTarget {
			return WinResult{GameOver: true, Winner: playerID, Reason: "best of five"}
		}
	}

	if board.completedRounds(s) >= diceRoundsMax {
		p1, p2 := board.Wins[s.Player1], board.Wins[s.Player2]
		switch {
		case p1 > p2:
			return WinResult{GameOver: true, Winner: s.Player1, Reason: "round wins"}
		case p2 > p1:
			return WinResult{GameOver: true, Winner: s.Player2, Reason: "round wins"}
		default:
			return WinResult{GameOver: true, IsDraw: true, Reason: "round wins"}
		}
	}
	return WinResult{}
}
