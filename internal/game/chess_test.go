package game

import (
	"encoding/json"
	"errors"
	"testing"
)

func chessSession(board *ChessBoard) *GameSession {
	return &GameSession{Player1: "alice", Player2: "bob", Board: board}
}

func TestChessStartingPosition(t *testing.T) {
	board := chessRules{}.NewBoard().(*ChessBoard)

	if board.Squares[0][4] != "bK" || board.Squares[7][4] != "wK" {
		t.Errorf("Kings misplaced: %s %s", board.Squares[0][4], board.Squares[7][4])
	}
	for col := 0; col < 8; col++ {
		if board.Squares[1][col] != "bP" || board.Squares[6][col] != "wP" {
			t.Fatalf("Pawn rows misplaced at col %d", col)
		}
		for row := 2; row < 6; row++ {
			if board.Squares[row][col] != "" {
				t.Fatalf("Middle of the board not empty at %d,%d", row, col)
			}
		}
	}
}

func TestChessPawnPushes(t *testing.T) {
	e := newTestEngine(GameChess)
	mustInit(t, e, "m1")

	// White double push from the start row.
	move(t, e, "m1", "alice", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`)
	session, _ := e.GetSession("m1")
	board := session.Board.(*ChessBoard)
	if board.Squares[4][4] != "wP" || board.Squares[6][4] != "" {
		t.Errorf("Double push not applied: %v", board.Squares[4])
	}

	// Black single push.
	move(t, e, "m1", "bob", `{"from":{"row":1,"col":3},"to":{"row":2,"col":3}}`)
	session, _ = e.GetSession("m1")
	board = session.Board.(*ChessBoard)
	if board.Squares[2][3] != "bP" {
		t.Errorf("Single push not applied: %v", board.Squares[2])
	}
}

func TestChessPawnCapture(t *testing.T) {
	e := newTestEngine(GameChess)
	mustInit(t, e, "m1")

	move(t, e, "m1", "alice", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`)
	move(t, e, "m1", "bob", `{"from":{"row":1,"col":3},"to":{"row":3,"col":3}}`)

	// e-pawn takes d-pawn.
	_, result, _, err := e.ApplyMove("m1", "alice", json.RawMessage(`{"from":{"row":4,"col":4},"to":{"row":3,"col":3}}`))
	if err != nil {
		t.Fatalf("Capture rejected: %v", err)
	}
	detail := result.(map[string]interface{})
	if detail["captured"] != "bP" {
		t.Errorf("Expected a black pawn captured, got %v", detail["captured"])
	}
}

func TestChessIllegalMoves(t *testing.T) {
	e := newTestEngine(GameChess)
	mustInit(t, e, "m1")

	cases := []struct {
		name    string
		payload string
	}{
		{"non-pawn piece", `{"from":{"row":7,"col":1},"to":{"row":5,"col":2}}`},
		{"backward pawn", `{"from":{"row":6,"col":0},"to":{"row":7,"col":0}}`},
		{"sideways pawn", `{"from":{"row":6,"col":0},"to":{"row":6,"col":1}}`},
		{"diagonal without capture", `{"from":{"row":6,"col":0},"to":{"row":5,"col":1}}`},
		{"empty source square", `{"from":{"row":4,"col":4},"to":{"row":3,"col":4}}`},
		{"opponent piece", `{"from":{"row":1,"col":0},"to":{"row":2,"col":0}}`},
		{"off the board", `{"from":{"row":6,"col":0},"to":{"row":-1,"col":0}}`},
	}
	for _, tc := range cases {
		_, _, _, err := e.ApplyMove("m1", "alice", json.RawMessage(tc.payload))
		if !errors.Is(err, ErrIllegalMove) {
			t.Errorf("%s: expected illegal-move, got %v", tc.name, err)
		}
	}
}

func TestChessPromotion(t *testing.T) {
	board := &ChessBoard{}
	board.Squares[1][0] = "wP"
	board.Squares[7][4] = "wK"
	board.Squares[0][4] = "bK"
	session := chessSession(board)
	session.MatchID = "m1"
	session.CurrentTurn = "alice"

	_, err := chessRules{}.ApplyMove(session, "alice", json.RawMessage(`{"from":{"row":1,"col":0},"to":{"row":0,"col":0}}`))
	if err != nil {
		t.Fatalf("Promotion push rejected: %v", err)
	}
	if board.Squares[0][0] != "wQ" {
		t.Errorf("Pawn should promote to queen, got %q", board.Squares[0][0])
	}
}

func TestChessKingCaptureWins(t *testing.T) {
	board := &ChessBoard{}
	board.Squares[7][4] = "wK"
	board.Squares[3][3] = "wP"
	// Black king already gone.
	win := chessRules{}.Evaluate(chessSession(board))
	if !win.GameOver || win.Winner != "alice" || win.Reason != "king captured" {
		t.Errorf("Expected king-capture win for alice, got %+v", win)
	}

	board2 := &ChessBoard{}
	board2.Squares[0][4] = "bK"
	win = chessRules{}.Evaluate(chessSession(board2))
	if !win.GameOver || win.Winner != "bob" || win.Reason != "king captured" {
		t.Errorf("Expected king-capture win for bob, got %+v", win)
	}
}

func TestChessKingsOnlyIsDraw(t *testing.T) {
	board := &ChessBoard{}
	board.Squares[7][4] = "wK"
	board.Squares[0][4] = "bK"
	win := chessRules{}.Evaluate(chessSession(board))
	if !win.GameOver || !win.IsDraw || win.Reason != "draw" {
		t.Errorf("Expected a draw with only kings left, got %+v", win)
	}
}

func TestChessMoveLimitDraw(t *testing.T) {
	session := chessSession(chessRules{}.NewBoard().(*ChessBoard))
	session.MoveHistory = make([]MoveRecord, 100)
	win := chessRules{}.Evaluate(session)
	if !win.GameOver || !win.IsDraw {
		t.Errorf("Expected a draw at the move limit, got %+v", win)
	}
}
