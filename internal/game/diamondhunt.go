package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

const (
	diamondGridSize  = 8
	diamondCount     = 5
	diamondWinTarget = 3
)

// DiamondHuntBoard is an 8x8 reveal grid with hidden diamond positions.
// Found tracks how many diamonds each player has uncovered.
type DiamondHuntBoard struct {
	Revealed [diamondGridSize][diamondGridSize]bool `json:"revealed"`
	Diamonds [][2]int                               `json:"diamonds"`
	Found    map[string]int                         `json:"found"`
}

type diamondHuntMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type diamondHuntRules struct{}

func (diamondHuntRules) Type() GameType { return GameDiamondHunt }

// NewBoard places five diamonds at distinct random cells.
func (diamondHuntRules) NewBoard() interface{} {
	board := &DiamondHuntBoard{
		Diamonds: make([][2]int, 0, diamondCount),
		Found:    make(map[string]int),
	}
	taken := make(map[int]bool)
	for len(board.Diamonds) < diamondCount {
		cell := rand.Intn(diamondGridSize * diamondGridSize)
		if taken[cell] {
			continue
		}
		taken[cell] = true
		board.Diamonds = append(board.Diamonds, [2]int{cell / diamondGridSize, cell % diamondGridSize})
	}
	return board
}

func (b *DiamondHuntBoard) diamondAt(row, col int) bool {
	for _, d := range b.Diamonds {
		if d[0] == row && d[1] == col {
			return true
		}
	}
	return false
}

func (b *DiamondHuntBoard) totalFound() int {
	total := 0
	for _, n := range b.Found {
		total += n
	}
	return total
}

// ApplyMove reveals a cell; revealing a diamond credits the finder.
func (diamondHuntRules) ApplyMove(s *GameSession, playerID string, move json.RawMessage) (interface{}, error) {
	var m diamondHuntMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid diamond-hunt move payload", ErrIllegalMove)
	}
	if m.Row < 0 || m.Row >= diamondGridSize || m.Col < 0 || m.Col >= diamondGridSize {
		return nil, fmt.Errorf("%w: cell out of range", ErrIllegalMove)
	}

	board := s.Board.(*DiamondHuntBoard)
	if board.Revealed[m.Row][m.Col] {
		return nil, fmt.Errorf("%w: cell already revealed", ErrIllegalMove)
	}

	board.Revealed[m.Row][m.Col] = true
	diamond := board.diamondAt(m.Row, m.Col)
	if diamond {
		board.Found[playerID]++
	}

	return map[string]interface{}{
		"row":     m.Row,
		"col":     m.Col,
		"diamond": diamond,
		"found":   board.Found[playerID],
	}, nil
}

// Evaluate ends the game outright when a player reveals a third diamond.
// Once all five are uncovered the higher count wins on score comparison,
// whichever threshold is hit first.
func (diamondHuntRules) Evaluate(s *GameSession) WinResult {
	board := s.Board.(*DiamondHuntBoard)

	for _, playerID := range []string{s.Player1, s.Player2} {
		if board.Found[playerID] >= diamondWinTarget {
			return WinResult{GameOver: true, Winner: playerID, Reason: "three diamonds"}
		}
	}

	if board.totalFound() >= diamondCount {
		p1, p2 := board.Found[s.Player1], board.Found[s.Player2]
		switch {
		case p1 > p2:
			return WinResult{GameOver: true, Winner: s.Player1, Reason: "score"}
		case p2 > p1:
			return WinResult{GameOver: true, Winner: s.Player2, Reason: "score"}
		default:
			// Unreachable with an odd diamond count, kept for safety.
			return WinResult{GameOver: true, IsDraw: true, Reason: "score"}
		}
	}
	return WinResult{}
}
