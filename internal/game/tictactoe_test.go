package game

import (
	"testing"
)

func TestTicTacToeColumnWin(t *testing.T) {
	e := newTestEngine(GameTicTacToe)
	mustInit(t, e, "m1")

	move(t, e, "m1", "alice", `{"row":0,"col":0}`)
	move(t, e, "m1", "bob", `{"row":0,"col":1}`)
	move(t, e, "m1", "alice", `{"row":1,"col":0}`)
	move(t, e, "m1", "bob", `{"row":1,"col":1}`)
	win := move(t, e, "m1", "alice", `{"row":2,"col":0}`)

	if !win.GameOver || win.Winner != "alice" || win.Reason != "column" {
		t.Errorf("Expected column win for alice, got %+v", win)
	}
}

func TestTicTacToeDiagonalWin(t *testing.T) {
	e := newTestEngine(GameTicTacToe)
	mustInit(t, e, "m1")

	move(t, e, "m1", "alice", `{"row":0,"col":0}`)
	move(t, e, "m1", "bob", `{"row":0,"col":1}`)
	move(t, e, "m1", "alice", `{"row":1,"col":1}`)
	move(t, e, "m1", "bob", `{"row":0,"col":2}`)
	win := move(t, e, "m1", "alice", `{"row":2,"col":2}`)

	if !win.GameOver || win.Winner != "alice" || win.Reason != "diagonal" {
		t.Errorf("Expected diagonal win for alice, got %+v", win)
	}
}

func TestTicTacToeDraw(t *testing.T) {
	e := newTestEngine(GameTicTacToe)
	mustInit(t, e, "m1")

	// X O X
	// X O O
	// O X X
	moves := []struct {
		player  string
		payload string
	}{
		{"alice", `{"row":0,"col":0}`},
		{"bob", `{"row":0,"col":1}`},
		{"alice", `{"row":0,"col":2}`},
		{"bob", `{"row":1,"col":1}`},
		{"alice", `{"row":1,"col":0}`},
		{"bob", `{"row":1,"col":2}`},
		{"alice", `{"row":2,"col":1}`},
		{"bob", `{"row":2,"col":0}`},
	}
	for _, m := range moves {
		if win := move(t, e, "m1", m.player, m.payload); win.GameOver {
			t.Fatalf("Game ended early on %s %s: %+v", m.player, m.payload, win)
		}
	}
	win := move(t, e, "m1", "alice", `{"row":2,"col":2}`)

	if !win.GameOver || !win.IsDraw || win.Reason != "board full" {
		t.Errorf("Expected a full-board draw, got %+v", win)
	}
	if win.Winner != "" {
		t.Errorf("Draw must carry no winner, got %s", win.Winner)
	}
}
