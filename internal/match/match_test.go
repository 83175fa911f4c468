package match

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"rpsduel/internal/game/card"
	"rpsduel/internal/network"
)

// recordingSink guarda os eventos entregues, por jogador, para inspeção.
type recordingSink struct {
	mu     sync.Mutex
	events map[string][]network.Message
}

func newRecordingSink() *recordingSink {
	return &recordingSink{events: make(map[string][]network.Message)}
}

func (s *recordingSink) Deliver(playerID string, msg network.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[playerID] = append(s.events[playerID], msg)
}

func (s *recordingSink) byType(playerID, eventType string) []network.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []network.Message
	for _, msg := range s.events[playerID] {
		if msg.Type == eventType {
			out = append(out, msg)
		}
	}
	return out
}

func decodePayload[T any](t *testing.T, msg network.Message) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		t.Fatalf("decode %s payload: %v", msg.Type, err)
	}
	return v
}

func newTestMatch(sink Sink) *Match {
	// Timeout zero desliga o timer de rodada: os testes controlam as jogadas.
	return New("m1", sink, 0, nil)
}

func joinBoth(t *testing.T, m *Match) {
	t.Helper()
	if err := m.Join("p1", "alice"); err != nil {
		t.Fatalf("join p1: %v", err)
	}
	if err := m.Join("p2", "bob"); err != nil {
		t.Fatalf("join p2: %v", err)
	}
}

func TestSecondJoinDealsHands(t *testing.T) {
	sink := newRecordingSink()
	m := newTestMatch(sink)

	if err := m.Join("p1", "alice"); err != nil {
		t.Fatalf("join p1: %v", err)
	}
	if m.State() != StateWaiting {
		t.Fatalf("state after first join = %s; want waiting", m.State())
	}
	if len(sink.byType("p1", EventGameStart)) != 0 {
		t.Fatal("game_start sent before second player joined")
	}

	if err := m.Join("p2", "bob"); err != nil {
		t.Fatalf("join p2: %v", err)
	}
	if m.State() != StatePlaying {
		t.Fatalf("state after second join = %s; want playing", m.State())
	}

	starts1 := sink.byType("p1", EventGameStart)
	starts2 := sink.byType("p2", EventGameStart)
	if len(starts1) != 1 || len(starts2) != 1 {
		t.Fatalf("game_start counts = %d, %d; want 1, 1", len(starts1), len(starts2))
	}

	gs1 := decodePayload[GameStartPayload](t, starts1[0])
	gs2 := decodePayload[GameStartPayload](t, starts2[0])

	if gs1.Opponent != "bob" || gs2.Opponent != "alice" {
		t.Errorf("opponents = %q, %q; want bob, alice", gs1.Opponent, gs2.Opponent)
	}
	if len(gs1.Hand) != HandSize || len(gs2.Hand) != HandSize {
		t.Errorf("hand sizes = %d, %d; want %d", len(gs1.Hand), len(gs2.Hand), HandSize)
	}

	// As duas mãos mais o baralho restante devem reconstruir o baralho cheio.
	if gs1.Stats.Deck != gs2.Stats.Deck {
		t.Errorf("players disagree on the remaining deck: %+v vs %+v", gs1.Stats.Deck, gs2.Stats.Deck)
	}
	if gs1.Stats.Deck.Total() != card.DeckSize-2*HandSize {
		t.Errorf("remaining deck total = %d; want %d", gs1.Stats.Deck.Total(), card.DeckSize-2*HandSize)
	}
	total := gs1.Stats.Hand.Total() + gs2.Stats.Hand.Total() + gs1.Stats.Deck.Total()
	if total != card.DeckSize {
		t.Errorf("hands + deck = %d; want %d", total, card.DeckSize)
	}
}

func TestThirdJoinRejected(t *testing.T) {
	sink := newRecordingSink()
	m := newTestMatch(sink)
	joinBoth(t, m)

	handBefore := len(m.players[0].Hand)
	if err := m.Join("p3", "carol"); err != ErrMatchFull {
		t.Fatalf("third join = %v; want ErrMatchFull", err)
	}
	if m.PlayerCount() != 2 {
		t.Fatalf("player count = %d; want 2", m.PlayerCount())
	}
	if len(m.players[0].Hand) != handBefore {
		t.Fatal("rejected join mutated existing player state")
	}
}

func TestDuplicateJoinRejected(t *testing.T) {
	m := newTestMatch(newRecordingSink())
	if err := m.Join("p1", "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Join("p1", "alice-again"); err != ErrDuplicateJoin {
		t.Fatalf("duplicate join = %v; want ErrDuplicateJoin", err)
	}
}

func TestPlayCardBeforePlaying(t *testing.T) {
	m := newTestMatch(newRecordingSink())
	if err := m.Join("p1", "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.PlayCard("p1", card.Rock); err != ErrNotPlaying {
		t.Fatalf("play while waiting = %v; want ErrNotPlaying", err)
	}
}

func TestPlayCardNotInHand(t *testing.T) {
	m := newTestMatch(newRecordingSink())
	joinBoth(t, m)

	// Mão controlada para garantir a ausência do tipo jogado.
	m.players[0].Hand = card.Pile{card.Rock, card.Rock}

	if err := m.PlayCard("p1", card.Scissors); err != card.ErrCardNotInHand {
		t.Fatalf("play absent card = %v; want ErrCardNotInHand", err)
	}
	if len(m.players[0].Hand) != 2 || m.Round() != 0 || len(m.pending) != 0 {
		t.Fatal("rejected play mutated match state")
	}
}

func TestPlayCardTwiceInRound(t *testing.T) {
	m := newTestMatch(newRecordingSink())
	joinBoth(t, m)

	first := m.players[0].Hand[0]
	second := m.players[0].Hand[1]
	if err := m.PlayCard("p1", first); err != nil {
		t.Fatalf("first play: %v", err)
	}
	if err := m.PlayCard("p1", second); err != ErrAlreadyPlayed {
		t.Fatalf("second play same round = %v; want ErrAlreadyPlayed", err)
	}
}

func TestUnknownPlayerRejected(t *testing.T) {
	m := newTestMatch(newRecordingSink())
	joinBoth(t, m)

	if err := m.PlayCard("intruder", card.Rock); err != ErrUnknownPlayer {
		t.Fatalf("unknown player = %v; want ErrUnknownPlayer", err)
	}
}

func TestFullGame(t *testing.T) {
	sink := newRecordingSink()
	m := newTestMatch(sink)
	joinBoth(t, m)

	for round := 0; round < MaxRounds; round++ {
		c1 := m.players[0].Hand[0]
		if err := m.PlayCard("p1", c1); err != nil {
			t.Fatalf("round %d, p1 plays %s: %v", round, c1, err)
		}
		if m.Round() != round {
			t.Fatalf("round advanced with a single pending play")
		}

		c2 := m.players[1].Hand[0]
		if err := m.PlayCard("p2", c2); err != nil {
			t.Fatalf("round %d, p2 plays %s: %v", round, c2, err)
		}
		if m.Round() != round+1 {
			t.Fatalf("round = %d after both played; want %d", m.Round(), round+1)
		}
	}

	if m.State() != StateFinished {
		t.Fatalf("state = %s after %d rounds; want finished", m.State(), MaxRounds)
	}
	if m.Round() != MaxRounds {
		t.Fatalf("round counter = %d; want %d", m.Round(), MaxRounds)
	}

	// Contagem conservada do início ao fim: mãos + baralho + descarte = 45.
	held := len(m.players[0].Hand) + len(m.players[1].Hand)
	if held != 2*(HandSize-MaxRounds) {
		t.Errorf("cards held = %d; want %d", held, 2*(HandSize-MaxRounds))
	}
	if total := held + m.deck.Size() + m.discards.Size(); total != card.DeckSize {
		t.Errorf("hands+deck+discards = %d; want %d", total, card.DeckSize)
	}

	for _, id := range []string{"p1", "p2"} {
		if n := len(sink.byType(id, EventRoundResult)); n != MaxRounds {
			t.Errorf("%s got %d round_result events; want %d", id, n, MaxRounds)
		}
		if n := len(sink.byType(id, EventGameOver)); n != 1 {
			t.Errorf("%s got %d game_over events; want 1", id, n)
		}
	}

	// Placares consistentes entre os dois anúncios finais.
	over1 := decodePayload[GameOverPayload](t, sink.byType("p1", EventGameOver)[0])
	over2 := decodePayload[GameOverPayload](t, sink.byType("p2", EventGameOver)[0])
	if over1.YourScore != over2.OpponentScore || over2.YourScore != over1.OpponentScore {
		t.Errorf("final scores disagree: %+v vs %+v", over1, over2)
	}

	if err := m.PlayCard("p1", m.players[0].Hand[0]); err != ErrNotPlaying {
		t.Fatalf("play after finish = %v; want ErrNotPlaying", err)
	}
}

func TestRoundResultPerspectives(t *testing.T) {
	sink := newRecordingSink()
	m := newTestMatch(sink)
	joinBoth(t, m)

	// Mãos controladas para um resultado conhecido: pedra vence tesoura.
	m.players[0].Hand = card.Pile{card.Rock}
	m.players[1].Hand = card.Pile{card.Scissors}

	if err := m.PlayCard("p1", card.Rock); err != nil {
		t.Fatalf("p1: %v", err)
	}
	if err := m.PlayCard("p2", card.Scissors); err != nil {
		t.Fatalf("p2: %v", err)
	}

	rr1 := decodePayload[RoundResultPayload](t, sink.byType("p1", EventRoundResult)[0])
	rr2 := decodePayload[RoundResultPayload](t, sink.byType("p2", EventRoundResult)[0])

	if rr1.Result != ResultWin || rr2.Result != ResultLose {
		t.Errorf("results = %s, %s; want win, lose", rr1.Result, rr2.Result)
	}
	if m.players[0].Score != 1 || m.players[1].Score != 0 {
		t.Errorf("scores = %d, %d; want 1, 0", m.players[0].Score, m.players[1].Score)
	}
	if rr1.OptimalChoice == "" {
		t.Error("round_result carries no optimal choice advisory")
	}
	if rr1.NewStats.Deck.Total() != card.DeckSize-2*HandSize {
		t.Errorf("deck total after round = %d; want %d", rr1.NewStats.Deck.Total(), card.DeckSize-2*HandSize)
	}
}

func TestDrawScoresNobody(t *testing.T) {
	sink := newRecordingSink()
	m := newTestMatch(sink)
	joinBoth(t, m)

	m.players[0].Hand = card.Pile{card.Paper}
	m.players[1].Hand = card.Pile{card.Paper}

	m.PlayCard("p1", card.Paper)
	m.PlayCard("p2", card.Paper)

	if m.players[0].Score != 0 || m.players[1].Score != 0 {
		t.Errorf("draw changed scores: %d, %d", m.players[0].Score, m.players[1].Score)
	}
	rr := decodePayload[RoundResultPayload](t, sink.byType("p1", EventRoundResult)[0])
	if rr.Result != ResultDraw {
		t.Errorf("result = %s; want draw", rr.Result)
	}
}

func TestForfeitAwardsOpponent(t *testing.T) {
	sink := newRecordingSink()
	m := newTestMatch(sink)
	joinBoth(t, m)

	if empty := m.Forfeit("p1"); empty {
		t.Fatal("forfeit with an opponent present reported the match empty")
	}
	if m.State() != StateFinished {
		t.Fatalf("state = %s; want finished", m.State())
	}

	over := decodePayload[GameOverPayload](t, sink.byType("p2", EventGameOver)[0])
	if over.Result != ResultWin || over.Reason != "opponent_left" {
		t.Errorf("game_over for survivor = %+v", over)
	}
}

func TestForfeitWhileWaitingEmptiesMatch(t *testing.T) {
	m := newTestMatch(newRecordingSink())
	if err := m.Join("p1", "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if empty := m.Forfeit("p1"); !empty {
		t.Fatal("lone player leaving should empty the match")
	}
}

func TestRoundTimerForcesPlay(t *testing.T) {
	sink := newRecordingSink()
	m := New("m1", sink, 30*time.Millisecond, nil)
	joinBoth(t, m)

	if err := m.PlayCard("p1", m.players[0].Hand[0]); err != nil {
		t.Fatalf("p1: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Round() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("round was never forced after the timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if n := len(sink.byType("p2", EventRoundResult)); n != 1 {
		t.Fatalf("p2 got %d round_result events; want 1", n)
	}
	// O retardatário é avisado de que uma carta foi jogada por ele.
	if n := len(sink.byType("p2", EventError)); n != 1 {
		t.Fatalf("p2 got %d error events; want 1", n)
	}
}

func TestOnFinishSummary(t *testing.T) {
	done := make(chan Summary, 1)
	m := New("m1", newRecordingSink(), 0, func(s Summary) { done <- s })
	joinBoth(t, m)

	for round := 0; round < MaxRounds; round++ {
		m.PlayCard("p1", m.players[0].Hand[0])
		m.PlayCard("p2", m.players[1].Hand[0])
	}

	select {
	case sum := <-done:
		if sum.MatchID != "m1" || sum.Rounds != MaxRounds || len(sum.Players) != 2 {
			t.Errorf("summary = %+v", sum)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onFinish was never called")
	}
}
