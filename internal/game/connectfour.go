package game

import (
	"encoding/json"
	"fmt"
)

const (
	connectFourRows = 6
	connectFourCols = 7
	connectFourWin  = 4
)

// ConnectFourBoard is a 6x7 grid. 0 = empty, 1 = player1, 2 = player2.
// Row 0 is the top; discs stack from row 5 upward.
type ConnectFourBoard struct {
	Grid [connectFourRows][connectFourCols]int `json:"grid"`
}

type connectFourMove struct {
	Column int `json:"column"`
}

type connectFourRules struct{}

func (connectFourRules) Type() GameType { return GameConnectFour }

func (connectFourRules) NewBoard() interface{} {
	return &ConnectFourBoard{}
}

func connectFourMark(s *GameSession, playerID string) int {
	if playerID == s.Player1 {
		return 1
	}
	return 2
}

// ApplyMove drops a disc into the chosen column.
func (connectFourRules) ApplyMove(s *GameSession, playerID string, move json.RawMessage) (interface{}, error) {
	var m connectFourMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid connect-four move payload", ErrIllegalMove)
	}
	if m.Column < 0 || m.Column >= connectFourCols {
		return nil, fmt.Errorf("%w: column out of range", ErrIllegalMove)
	}

	board := s.Board.(*ConnectFourBoard)
	row := -1
	for r := connectFourRows - 1; r >= 0; r-- {
		if board.Grid[r][m.Column] == 0 {
			row = r
			break
		}
	}
	if row < 0 {
		return nil, fmt.Errorf("%w: column %d is full", ErrIllegalMove, m.Column)
	}

	mark := connectFourMark(s, playerID)
	board.Grid[row][m.Column] = mark

	return map[string]interface{}{
		"column": m.Column,
		"row":    row,
		"player": playerID,
	}, nil
}

// connectFourDirs pairs each scan direction with the reason reported on a
// win in that direction.
var connectFourDirs = []struct {
	dr, dc int
	reason string
}{
	{1, 0, "vertical"},
	{0, 1, "horizontal"},
	{1, 1, "diagonal"},
	{1, -1, "anti-diagonal"},
}

// Evaluate scans every cell in all four directions for four in a row.
// Draw when the top row is full with no winner.
func (connectFourRules) Evaluate(s *GameSession) WinResult {
	board := s.Board.(*ConnectFourBoard)

	for r := 0; r < connectFourRows; r++ {
		for c := 0; c < connectFourCols; c++ {
			mark := board.Grid[r][c]
			if mark == 0 {
				continue
			}
			for _, d := range connectFourDirs {
				count := 1
				rr, cc := r+d.dr, c+d.dc
				for rr >= 0 && rr < connectFourRows && cc >= 0 && cc < connectFourCols && board.Grid[rr][cc] == mark {
					count++
					rr += d.dr
					cc += d.dc
				}
				if count >= connectFourWin {
					winner := s.Player1
					if mark == 2 {
						winner = s.Player2
					}
					return WinResult{GameOver: true, Winner: winner, Reason: d.reason}
				}
			}
		}
	}

	for c := 0; c < connectFourCols; c++ {
		if board.Grid[0][c] == 0 {
			return WinResult{}
		}
	}
	return WinResult{GameOver: true, IsDraw: true, Reason: "board full"}
}
