package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChessBoard is an 8x8 piece grid. Row 0 is black's back rank. Pieces are
// two-letter codes: color (w/b) + piece (K,Q,R,B,N,P). Empty squares are
// "". Player1 plays white.
type ChessBoard struct {
	Squares [8][8]string `json:"squares"`
}

// Square addresses a board cell.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type chessMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type chessRules struct{}

func (chessRules) Type() GameType { return GameChess }

// NewBoard returns the standard chess starting position.
func (chessRules) NewBoard() interface{} {
	b := &ChessBoard{}
	back := []string{"R", "N", "B", "Q", "K", "B", "N", "R"}
	for col := 0; col < 8; col++ {
		b.Squares[0][col] = "b" + back[col]
		b.Squares[1][col] = "bP"
		b.Squares[6][col] = "wP"
		b.Squares[7][col] = "w" + back[col]
	}
	return b
}

func chessColor(s *GameSession, playerID string) string {
	if playerID == s.Player1 {
		return "w"
	}
	return "b"
}

// ApplyMove handles chess moves. Only pawn movement has real legality
// rules; every other piece type has no legal destinations. This is the
// reference behavior, preserved deliberately (see DESIGN.md).
func (chessRules) ApplyMove(s *GameSession, playerID string, move json.RawMessage) (interface{}, error) {
	var m chessMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid chess move payload", ErrIllegalMove)
	}
	if !onBoard(m.From.Row, m.From.Col) || !onBoard(m.To.Row, m.To.Col) {
		return nil, fmt.Errorf("%w: square out of range", ErrIllegalMove)
	}

	board := s.Board.(*ChessBoard)
	piece := board.Squares[m.From.Row][m.From.Col]
	color := chessColor(s, playerID)

	if piece == "" || !strings.HasPrefix(piece, color) {
		return nil, fmt.Errorf("%w: no own piece on source square", ErrIllegalMove)
	}
	if !pawnMoveLegal(board, piece, color, m) {
		return nil, fmt.Errorf("%w: destination not reachable", ErrIllegalMove)
	}

	captured := board.Squares[m.To.Row][m.To.Col]
	board.Squares[m.From.Row][m.From.Col] = ""
	placed := piece
	// Promotion on the last rank
	if piece[1] == 'P' && (m.To.Row == 0 || m.To.Row == 7) {
		placed = color + "Q"
	}
	board.Squares[m.To.Row][m.To.Col] = placed

	return map[string]interface{}{
		"from":     m.From,
		"to":       m.To,
		"piece":    piece,
		"captured": captured,
	}, nil
}

// pawnMoveLegal implements full pawn movement: single push, double push
// from the start row, diagonal capture. Non-pawn pieces always fail.
func pawnMoveLegal(b *ChessBoard, piece, color string, m chessMove) bool {
	if piece[1] != 'P' {
		return false
	}

	dir := -1 // white advances toward row 0
	startRow := 6
	if color == "b" {
		dir = 1
		startRow = 1
	}

	dr := m.To.Row - m.From.Row
	dc := m.To.Col - m.From.Col
	target := b.Squares[m.To.Row][m.To.Col]

	// Single push
	if dc == 0 && dr == dir && target == "" {
		return true
	}
	// Double push from the start row, both squares empty
	if dc == 0 && dr == 2*dir && m.From.Row == startRow &&
		b.Squares[m.From.Row+dir][m.From.Col] == "" && target == "" {
		return true
	}
	// Diagonal capture
	if (dc == 1 || dc == -1) && dr == dir && target != "" && !strings.HasPrefix(target, color) {
		return true
	}
	return false
}

func onBoard(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// Evaluate uses king presence only: losing your king loses the game. A
// draw is declared when only the kings remain or after 100 moves.
func (chessRules) Evaluate(s *GameSession) WinResult {
	board := s.Board.(*ChessBoard)

	whiteKing, blackKing := false, false
	nonKings := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			switch piece := board.Squares[row][col]; piece {
			case "":
			case "wK":
				whiteKing = true
			case "bK":
				blackKing = true
			default:
				nonKings++
			}
		}
	}

	if !whiteKing {
		return WinResult{GameOver: true, Winner: s.Player2, Reason: "king captured"}
	}
	if !blackKing {
		return WinResult{GameOver: true, Winner: s.Player1, Reason: "king captured"}
	}
	if nonKings == 0 || len(s.MoveHistory) >= 100 {
		return WinResult{GameOver: true, IsDraw: true, Reason: "draw"}
	}
	return WinResult{}
}
