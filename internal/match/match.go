// Package match implementa o motor de partidas: a máquina de estados de uma
// partida de duas pessoas, a resolução de rodadas e o registro de partidas
// ativas. A camada de rede não aparece aqui; a partida apenas emite eventos
// endereçados por jogador através de um Sink.
package match

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"rpsduel/internal/game/card"
	"rpsduel/internal/game/stats"
	"rpsduel/internal/network"
)

// Estados da partida. Não existe transição a partir de finished.
const (
	StateWaiting  = "waiting"
	StatePlaying  = "playing"
	StateFinished = "finished"
)

const (
	// MaxRounds é o número fixo de rodadas de uma partida.
	MaxRounds = 10

	// HandSize é o tamanho da mão distribuída para cada jogador.
	HandSize = 15
)

// Sink recebe os eventos de saída da partida, já endereçados por jogador.
// O gateway de sessão implementa essa interface e faz o roteamento para a
// conexão correta; a partida nunca conhece conexões.
type Sink interface {
	Deliver(playerID string, msg network.Message)
}

// Player é um dos dois participantes de uma partida.
type Player struct {
	ID       string
	Username string
	Hand     card.Pile
	Score    int
}

// Match é uma partida completa entre exatamente dois jogadores.
// Toda mutação passa pelo mutex: as duas conexões e o timer de rodada podem
// chegar em goroutines diferentes, e o contador de rodada e as mãos não podem
// ser disputados entre elas.
type Match struct {
	id string

	mu       sync.Mutex
	state    string
	players  []*Player
	deck     card.Pile
	discards card.Pile
	round    int
	pending  map[string]card.Card

	rng          *rand.Rand
	sink         Sink
	onFinish     func(Summary)
	roundTimeout time.Duration
	roundTimer   *time.Timer
	createdAt    time.Time
}

// New cria uma partida vazia com o baralho já embaralhado.
// roundTimeout limita a espera pelo segundo jogador de uma rodada; zero
// desliga o timer (útil em testes). onFinish pode ser nil.
func New(id string, sink Sink, roundTimeout time.Duration, onFinish func(Summary)) *Match {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	return &Match{
		id:           id,
		state:        StateWaiting,
		deck:         card.NewShuffledPile(rng),
		pending:      make(map[string]card.Card),
		rng:          rng,
		sink:         sink,
		onFinish:     onFinish,
		roundTimeout: roundTimeout,
		createdAt:    time.Now(),
	}
}

func (m *Match) ID() string { return m.id }

func (m *Match) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Match) Round() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round
}

func (m *Match) CreatedAt() time.Time { return m.createdAt }

func (m *Match) PlayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}

// Join adiciona um jogador à partida. A entrada do segundo jogador dispara a
// transição waiting -> playing: as duas mãos são distribuídas e cada jogador
// recebe seu game_start.
func (m *Match) Join(playerID, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateWaiting {
		return ErrMatchFull
	}
	for _, p := range m.players {
		if p.ID == playerID {
			return ErrDuplicateJoin
		}
	}
	if len(m.players) == 2 {
		return ErrMatchFull
	}

	m.players = append(m.players, &Player{ID: playerID, Username: username})
	log.Printf("[Match %s] player %s (%s) joined (%d/2)", m.id, username, playerID, len(m.players))

	if len(m.players) == 2 {
		m.dealLocked()
	}
	return nil
}

// dealLocked divide o baralho em duas mãos de 15 cartas e anuncia o início.
// Uma falha aqui é violação de invariante (o baralho recém-criado tem 45
// cartas), então é tratada como erro de programação e apenas logada.
func (m *Match) dealLocked() {
	for _, p := range m.players {
		hand, err := m.deck.Deal(HandSize)
		if err != nil {
			log.Printf("[Match %s] ERROR: deal failed, aborting match: %v", m.id, err)
			m.state = StateFinished
			return
		}
		p.Hand = hand
	}

	m.state = StatePlaying
	log.Printf("[Match %s] both players present, hands dealt, %d cards remain", m.id, m.deck.Size())

	for _, p := range m.players {
		m.emit(p.ID, EventGameStart, GameStartPayload{
			Hand:     p.Hand,
			Stats:    stats.Compute(&p.Hand, &m.deck),
			Opponent: m.opponentOf(p.ID).Username,
		})
	}
}

// PlayCard registra a jogada de um jogador. A primeira jogada da rodada fica
// pendente (e arma o timer de rodada); a segunda dispara a resolução.
func (m *Match) PlayCard(playerID string, c card.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePlaying {
		return ErrNotPlaying
	}

	p := m.playerByID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if _, played := m.pending[playerID]; played {
		return ErrAlreadyPlayed
	}

	// A carta sai da mão no momento da jogada; a mão encolhe de 15 até 5
	// ao longo das 10 rodadas.
	if err := p.Hand.Remove(c); err != nil {
		return err
	}
	m.pending[playerID] = c

	switch len(m.pending) {
	case 1:
		if m.roundTimeout > 0 {
			round := m.round
			m.roundTimer = time.AfterFunc(m.roundTimeout, func() {
				m.forcePlay(round)
			})
		}
	case 2:
		m.stopTimerLocked()
		m.resolveRoundLocked()
	}
	return nil
}

// forcePlay é o callback do timer de rodada: joga uma carta aleatória pelo
// jogador que não agiu a tempo, para que uma rodada nunca fique pendente para
// sempre por abandono do oponente.
func (m *Match) forcePlay(round int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// O timer pode disparar depois da rodada resolver ou da partida acabar.
	if m.state != StatePlaying || m.round != round || len(m.pending) != 1 {
		return
	}

	for _, p := range m.players {
		if _, played := m.pending[p.ID]; played {
			continue
		}
		c, err := p.Hand.Draw(m.rng)
		if err != nil {
			log.Printf("[Match %s] ERROR: no cards left to force-play for %s: %v", m.id, p.ID, err)
			m.finishLocked(m.opponentOf(p.ID).ID, "opponent_timeout")
			return
		}
		m.pending[p.ID] = c
		log.Printf("[Match %s] round %d timed out, forced %s for %s", m.id, m.round, c, p.ID)
		m.emit(p.ID, EventError, ErrorPayload{
			Message: fmt.Sprintf("You ran out of time! The card %s was played for you.", c),
		})
	}

	m.resolveRoundLocked()
}

// resolveRoundLocked compara as duas jogadas pendentes, pontua, avança o
// contador de rodada e anuncia o resultado para os dois lados.
func (m *Match) resolveRoundLocked() {
	p1, p2 := m.players[0], m.players[1]
	c1, c2 := m.pending[p1.ID], m.pending[p2.ID]

	outcome := card.Compare(c1, c2)
	switch outcome {
	case card.Card1Wins:
		p1.Score++
	case card.Card2Wins:
		p2.Score++
	}

	// Cartas jogadas vão para o descarte: 45 = mãos + baralho + descarte,
	// sempre.
	m.discards.Add(c1)
	m.discards.Add(c2)
	m.pending = make(map[string]card.Card)
	m.round++

	log.Printf("[Match %s] round %d: %s vs %s -> %d (score %d x %d)",
		m.id, m.round, c1, c2, outcome, p1.Score, p2.Score)

	results := map[string]string{p1.ID: ResultDraw, p2.ID: ResultDraw}
	switch outcome {
	case card.Card1Wins:
		results[p1.ID], results[p2.ID] = ResultWin, ResultLose
	case card.Card2Wins:
		results[p1.ID], results[p2.ID] = ResultLose, ResultWin
	}

	for _, p := range m.players {
		st := stats.Compute(&p.Hand, &m.deck)
		optimal, err := stats.OptimalChoice(st)
		if err != nil {
			// O baralho restante é fixo em 15 cartas após a distribuição,
			// então isso não acontece em uma partida bem formada.
			log.Printf("[Match %s] ERROR: optimal choice: %v", m.id, err)
		}
		m.emit(p.ID, EventRoundResult, RoundResultPayload{
			Result:        results[p.ID],
			OptimalChoice: optimal,
			NewStats:      st,
		})
	}

	if m.round == MaxRounds {
		winnerID := ""
		if p1.Score > p2.Score {
			winnerID = p1.ID
		} else if p2.Score > p1.Score {
			winnerID = p2.ID
		}
		m.finishLocked(winnerID, "")
	}
}

// Forfeit encerra a participação de um jogador (desconexão). Em uma partida
// em andamento o oponente vence por W.O. Retorna true quando a partida ficou
// sem jogadores e pode ser descartada pelo registro.
func (m *Match) Forfeit(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateFinished:
		return false
	case StateWaiting:
		for i, p := range m.players {
			if p.ID == playerID {
				m.players = append(m.players[:i], m.players[i+1:]...)
				break
			}
		}
		return len(m.players) == 0
	default: // StatePlaying
		if m.playerByID(playerID) == nil {
			return false
		}
		opponent := m.opponentOf(playerID)
		log.Printf("[Match %s] player %s left, %s wins by forfeit", m.id, playerID, opponent.ID)
		m.finishLocked(opponent.ID, "opponent_left")
		return false
	}
}

// finishLocked faz a transição (única e definitiva) para finished e emite o
// placar final para os dois jogadores.
func (m *Match) finishLocked(winnerID, reason string) {
	m.state = StateFinished
	m.stopTimerLocked()

	winnerName := ""
	if w := m.playerByID(winnerID); w != nil {
		winnerName = w.Username
	}

	for _, p := range m.players {
		result := ResultDraw
		if winnerID != "" {
			if p.ID == winnerID {
				result = ResultWin
			} else {
				result = ResultLose
			}
		}
		m.emit(p.ID, EventGameOver, GameOverPayload{
			Result:        result,
			Winner:        winnerName,
			YourScore:     p.Score,
			OpponentScore: m.opponentOf(p.ID).Score,
			Reason:        reason,
		})
	}

	log.Printf("[Match %s] finished after %d rounds, winner=%q reason=%q", m.id, m.round, winnerID, reason)

	if m.onFinish != nil {
		sum := Summary{
			MatchID:  m.id,
			Rounds:   m.round,
			WinnerID: winnerID,
			Reason:   reason,
		}
		for _, p := range m.players {
			sum.Players = append(sum.Players, PlayerResult{ID: p.ID, Username: p.Username, Score: p.Score})
		}
		// O callback pode fazer I/O (publicar no barramento); não seguramos
		// o lock da partida esperando por ele.
		go m.onFinish(sum)
	}
}

func (m *Match) stopTimerLocked() {
	if m.roundTimer != nil {
		m.roundTimer.Stop()
		m.roundTimer = nil
	}
}

// emit entrega um evento endereçado ao Sink. A serialização só falha por erro
// de programação nos payloads, então ela é logada e o evento descartado.
func (m *Match) emit(playerID, eventType string, data any) {
	msg, err := network.NewMessage(eventType, data)
	if err != nil {
		log.Printf("[Match %s] ERROR: marshal %s: %v", m.id, eventType, err)
		return
	}
	m.sink.Deliver(playerID, msg)
}

func (m *Match) playerByID(id string) *Player {
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *Match) opponentOf(id string) *Player {
	for _, p := range m.players {
		if p.ID != id {
			return p
		}
	}
	return nil
}
