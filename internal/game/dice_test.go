package game

import (
	"encoding/json"
	"testing"
)

func TestDiceRoundResolution(t *testing.T) {
	e := newTestEngine(GameDice)
	mustInit(t, e, "m1")

	_, result, _, err := e.ApplyMove("m1", "alice", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Roll rejected: %v", err)
	}
	detail := result.(map[string]interface{})
	if detail["roundOver"] != false {
		t.Errorf("Round should stay open after one roll: %v", detail)
	}
	total := detail["total"].(int)
	if total < 2 || total > 12 {
		t.Errorf("Two-dice total out of range: %d", total)
	}
	dice := detail["dice"].([]int)
	if len(dice) != 2 || dice[0]+dice[1] != total {
		t.Errorf("Dice faces inconsistent with total: %v vs %d", dice, total)
	}

	_, result, _, err = e.ApplyMove("m1", "bob", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Roll rejected: %v", err)
	}
	detail = result.(map[string]interface{})
	if detail["roundOver"] != true {
		t.Errorf("Round should resolve after both rolls: %v", detail)
	}

	session, _ := e.GetSession("m1")
	board := session.Board.(*DiceBoard)
	winner := detail["roundWinner"].(string)
	switch {
	case winner == "":
		if board.Wins["alice"]+board.Wins["bob"] != 0 {
			t.Errorf("Tied round must award no win: %v", board.Wins)
		}
	default:
		if board.Wins[winner] != 1 {
			t.Errorf("Round winner %s not credited: %v", winner, board.Wins)
		}
	}
}

func TestDicePlaysToCompletion(t *testing.T) {
	e := newTestEngine(GameDice)
	mustInit(t, e, "m1")

	// Five completed rounds at most, two rolls each.
	var win WinResult
	players := []string{"alice", "bob"}
	for i := 0; i < 2*diceRoundsMax; i++ {
		session, _ := e.GetSession("m1")
		if session.Status == SessionFinished {
			break
		}
		win = move(t, e, "m1", players[i%2], `{}`)
	}

	if !win.GameOver {
		t.Fatalf("Match still open after %d rolls", 2*diceRoundsMax)
	}

	session, _ := e.GetSession("m1")
	board := session.Board.(*DiceBoard)
	switch {
	case win.IsDraw:
		if board.Wins["alice"] != board.Wins["bob"] {
			t.Errorf("Draw with unequal round wins: %v", board.Wins)
		}
	case win.Winner == "alice":
		if board.Wins["alice"] <= board.Wins["bob"] {
			t.Errorf("Winner has fewer round wins: %v", board.Wins)
		}
	case win.Winner == "bob":
		if board.Wins["bob"] <= board.Wins["alice"] {
			t.Errorf("Winner has fewer round wins: %v", board.Wins)
		}
	default:
		t.Errorf("Unexpected result: %+v", win)
	}

	if win.Reason != "best of five" && win.Reason != "round wins" {
		t.Errorf("Unexpected end reason: %q", win.Reason)
	}
}

func TestDiceEarlyWinAtThreeRounds(t *testing.T) {
	// Evaluate-level check: three round wins end the match regardless of
	// rounds remaining.
	session := &GameSession{Player1: "alice", Player2: "bob"}
	session.Board = &DiceBoard{
		Rounds: []DiceRound{},
		Wins:   map[string]int{"alice": 3, "bob": 0},
	}

	win := diceRules{}.Evaluate(session)
	if !win.GameOver || win.Winner != "alice" || win.Reason != "best of five" {
		t.Errorf("Expected best-of-five win for alice, got %+v", win)
	}
}
