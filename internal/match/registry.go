package match

import (
	"log"
	"time"

	"rpsduel/internal/game/card"
)

// Registry (o ator) é o dono do mapa matchId -> Match. Criação, busca e
// remoção passam todas pela goroutine de Run, então o mapa dispensa lock e
// criar-ao-entrar é atômico mesmo com muitas conexões simultâneas. As jogadas
// em si NÃO passam pelo ator: partidas diferentes rodam em paralelo,
// protegidas cada uma pelo próprio mutex.
type Registry struct {
	matches   map[string]*Match
	requestCh chan interface{}

	sink         Sink
	roundTimeout time.Duration
	idleTimeout  time.Duration
	onFinish     func(Summary)
}

// NewRegistry cria o registro. idleTimeout limita quanto tempo uma partida
// pode ficar em waiting antes de ser descartada; onFinish (opcional) é
// repassado para cada partida criada.
func NewRegistry(sink Sink, roundTimeout, idleTimeout time.Duration, onFinish func(Summary)) *Registry {
	return &Registry{
		matches:      make(map[string]*Match),
		requestCh:    make(chan interface{}),
		sink:         sink,
		roundTimeout: roundTimeout,
		idleTimeout:  idleTimeout,
		onFinish:     onFinish,
	}
}

// --- Mensagens para o ator ---

type joinRequest struct {
	matchID  string
	playerID string
	username string
	reply    chan error
}

type getRequest struct {
	matchID string
	reply   chan *Match
}

type removeRequest struct {
	matchID string
}

type sizeRequest struct {
	reply chan int
}

// --- API pública do ator ---

// JoinOrCreate encontra a partida pelo id (ou cria uma vazia) e delega para
// Match.Join, propagando as falhas dele.
func (r *Registry) JoinOrCreate(matchID, playerID, username string) error {
	reply := make(chan error)
	r.requestCh <- joinRequest{matchID: matchID, playerID: playerID, username: username, reply: reply}
	return <-reply
}

// Get retorna a partida pelo id, ou ErrMatchNotFound.
func (r *Registry) Get(matchID string) (*Match, error) {
	reply := make(chan *Match)
	r.requestCh <- getRequest{matchID: matchID, reply: reply}
	m := <-reply
	if m == nil {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// PlayCard roteia uma jogada para a partida dona. A resolução acontece na
// goroutine do chamador, fora do ator, para que partidas independentes não
// disputem o ator entre si.
func (r *Registry) PlayCard(matchID, playerID string, c card.Card) error {
	m, err := r.Get(matchID)
	if err != nil {
		return err
	}
	return m.PlayCard(playerID, c)
}

// Forfeit repassa a desistência de um jogador e descarta a partida se ela
// ficou vazia.
func (r *Registry) Forfeit(matchID, playerID string) {
	m, err := r.Get(matchID)
	if err != nil {
		return
	}
	if empty := m.Forfeit(playerID); empty {
		r.requestCh <- removeRequest{matchID: matchID}
	}
}

// Size retorna o número de partidas registradas.
func (r *Registry) Size() int {
	reply := make(chan int)
	r.requestCh <- sizeRequest{reply: reply}
	return <-reply
}

// Run inicia o loop principal do ator. A cada minuto ele varre o mapa e
// descarta partidas terminadas ou abandonadas em waiting.
func (r *Registry) Run() {
	log.Println("[Registry] actor started")
	sweepTicker := time.NewTicker(1 * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case msg := <-r.requestCh:
			switch req := msg.(type) {
			case joinRequest:
				m, ok := r.matches[req.matchID]
				if !ok {
					m = New(req.matchID, r.sink, r.roundTimeout, r.onFinish)
					r.matches[req.matchID] = m
					log.Printf("[Registry] created match %s (%d active)", req.matchID, len(r.matches))
				}
				req.reply <- m.Join(req.playerID, req.username)

			case getRequest:
				req.reply <- r.matches[req.matchID]

			case removeRequest:
				delete(r.matches, req.matchID)

			case sizeRequest:
				req.reply <- len(r.matches)
			}

		case <-sweepTicker.C:
			r.sweep()
		}
	}
}

// sweep roda dentro da goroutine do ator.
func (r *Registry) sweep() {
	for id, m := range r.matches {
		switch m.State() {
		case StateFinished:
			delete(r.matches, id)
			log.Printf("[Registry] cleaned up finished match %s", id)
		case StateWaiting:
			if time.Since(m.CreatedAt()) > r.idleTimeout {
				delete(r.matches, id)
				log.Printf("[Registry] evicted idle match %s (waiting > %s)", id, r.idleTimeout)
			}
		}
	}
}
