package game

import (
	"encoding/json"
	"fmt"
)

// TicTacToeBoard is a 3x3 grid. 0 = empty, 1 = player1, 2 = player2.
type TicTacToeBoard struct {
	Grid [3][3]int `json:"grid"`
}

type ticTacToeMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ticTacToeRules struct{}

func (ticTacToeRules) Type() GameType { return GameTicTacToe }

func (ticTacToeRules) NewBoard() interface{} {
	return &TicTacToeBoard{}
}

func (ticTacToeRules) ApplyMove(s *GameSession, playerID string, move json.RawMessage) (interface{}, error) {
	var m ticTacToeMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid tic-tac-toe move payload", ErrIllegalMove)
	}
	if m.Row < 0 || m.Row > 2 || m.Col < 0 || m.Col > 2 {
		return nil, fmt.Errorf("%w: cell out of range", ErrIllegalMove)
	}

	board := s.Board.(*TicTacToeBoard)
	if board.Grid[m.Row][m.Col] != 0 {
		return nil, fmt.Errorf("%w: cell already taken", ErrIllegalMove)
	}

	mark := 1
	if playerID == s.Player2 {
		mark = 2
	}
	board.Grid[m.Row][m.Col] = mark

	return map[string]interface{}{
		"row":    m.Row,
		"col":    m.Col,
		"player": playerID,
	}, nil
}

// ticTacToeLines are the eight winning lines with the reason reported.
var ticTacToeLines = []struct {
	cells  [3][2]int
	reason string
}{
	{[3][2]int{{0, 0}, {0, 1}, {0, 2}}, "row"},
	{[3][2]int{{1, 0}, {1, 1}, {1, 2}}, "row"},
	{[3][2]int{{2, 0}, {2, 1}, {2, 2}}, "row"},
	{[3][2]int{{0, 0}, {1, 0}, {2, 0}}, "column"},
	{[3][2]int{{0, 1}, {1, 1}, {2, 1}}, "column"},
	{[3][2]int{{0, 2}, {1, 2}, {2, 2}}, "column"},
	{[3][2]int{{0, 0}, {1, 1}, {2, 2}}, "diagonal"},
	{[3][2]int{{0, 2}, {1, 1}, {2, 0}}, "diagonal"},
}

func (ticTacToeRules) Evaluate(s *GameSession) WinResult {
	board := s.Board.(*TicTacToeBoard)

	for _, line := range ticTacToeLines {
		a := board.Grid[line.cells[0][0]][line.cells[0][1]]
		b := board.Grid[line.cells[1][0]][line.cells[1][1]]
		c := board.Grid[line.cells[2][0]][line.cells[2][1]]
		if a != 0 && a == b && b == c {
			winner := s.Player1
			if a == 2 {
				winner = s.Player2
			}
			return WinResult{GameOver: true, Winner: winner, Reason: line.reason}
		}
	}

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if board.Grid[r][c] == 0 {
				return WinResult{}
			}
		}
	}
	return WinResult{GameOver: true, IsDraw: true, Reason: "board full"}
}
