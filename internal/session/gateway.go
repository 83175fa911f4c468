// Package session é o adaptador por conexão entre a camada de rede e o motor
// de partidas: traduz eventos de entrada em chamadas ao registro e roteia os
// eventos endereçados das partidas de volta para a conexão certa. Nenhuma
// regra de jogo vive aqui.
package session

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"rpsduel/internal/game/card"
	"rpsduel/internal/match"
	"rpsduel/internal/network"
)

// PlayerSession representa um jogador único conectado ao servidor.
type PlayerSession struct {
	ID       string
	Username string
	MatchID  string
	Client   *network.Client
}

// Gateway implementa network.EventHandler (entrada) e match.Sink (saída).
type Gateway struct {
	registry *match.Registry

	// sessions é tocado apenas pela goroutine do Hub.
	sessions map[*network.Client]*PlayerSession

	// byID é lido por Deliver a partir das goroutines das partidas,
	// então precisa do próprio lock.
	mu   sync.RWMutex
	byID map[string]*network.Client
}

// NewGateway cria o gateway sem registro: o gateway é o Sink do registro, e o
// registro é uma dependência do gateway, então um dos lados é amarrado depois.
func NewGateway() *Gateway {
	return &Gateway{
		sessions: make(map[*network.Client]*PlayerSession),
		byID:     make(map[string]*network.Client),
	}
}

// AttachRegistry injeta o registro de partidas. Deve ser chamado antes do
// servidor começar a aceitar conexões.
func (g *Gateway) AttachRegistry(registry *match.Registry) {
	g.registry = registry
}

// --- network.EventHandler ---

// OnConnect cria a sessão do jogador com uma identidade nova.
func (g *Gateway) OnConnect(c *network.Client) {
	session := &PlayerSession{ID: uuid.NewString(), Client: c}
	g.sessions[c] = session

	g.mu.Lock()
	g.byID[session.ID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] session %s created for %s (%d online)", session.ID, c.Conn().RemoteAddr(), len(g.sessions))
}

// OnDisconnect descarta a sessão. Se o jogador estava em uma partida, ela é
// avisada e decide o fim de jogo por desistência.
func (g *Gateway) OnDisconnect(c *network.Client) {
	session, ok := g.sessions[c]
	if !ok {
		return
	}

	if session.MatchID != "" {
		g.registry.Forfeit(session.MatchID, session.ID)
	}

	g.mu.Lock()
	delete(g.byID, session.ID)
	g.mu.Unlock()

	delete(g.sessions, c)
	log.Printf("[Gateway] session %s removed (%d online)", session.ID, len(g.sessions))
}

// OnMessage despacha cada evento de entrada. Toda falha do motor vira um
// evento "error" para o cliente; a conexão nunca é derrubada por causa delas.
func (g *Gateway) OnMessage(c *network.Client, msg network.Message) {
	session, ok := g.sessions[c]
	if !ok {
		return // Ignora mensagens de clientes sem sessão.
	}

	switch msg.Type {
	case EventJoinGame:
		g.handleJoinGame(session, msg.Payload)
	case EventPlayCard:
		g.handlePlayCard(session, msg.Payload)
	default:
		g.sendError(c, "unknown event: "+msg.Type)
	}
}

func (g *Gateway) handleJoinGame(session *PlayerSession, payload json.RawMessage) {
	var req JoinGamePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		g.sendError(session.Client, "malformed join_game payload")
		return
	}
	if req.Username == "" || req.GameID == "" {
		g.sendError(session.Client, "username and gameId are required")
		return
	}
	if session.MatchID != "" {
		g.sendError(session.Client, "you are already in a match")
		return
	}

	if err := g.registry.JoinOrCreate(req.GameID, session.ID, req.Username); err != nil {
		g.sendError(session.Client, err.Error())
		return
	}

	session.Username = req.Username
	session.MatchID = req.GameID
	log.Printf("[Gateway] %s (%s) joined game %s", req.Username, session.ID, req.GameID)
}

func (g *Gateway) handlePlayCard(session *PlayerSession, payload json.RawMessage) {
	var req PlayCardPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		g.sendError(session.Client, "malformed play_card payload")
		return
	}

	played, err := card.Parse(req.Card)
	if err != nil {
		g.sendError(session.Client, err.Error())
		return
	}

	if err := g.registry.PlayCard(req.GameID, session.ID, played); err != nil {
		g.sendError(session.Client, err.Error())
		return
	}
}

// --- match.Sink ---

// Deliver roteia um evento endereçado de uma partida para a conexão do
// jogador. O envio nunca bloqueia: se o buffer do cliente estiver cheio, o
// evento é descartado e logado (o cliente está lento demais para acompanhar).
func (g *Gateway) Deliver(playerID string, msg network.Message) {
	g.mu.RLock()
	c, ok := g.byID[playerID]
	g.mu.RUnlock()

	if !ok {
		// Jogador já desconectado; o evento não tem mais destino.
		return
	}

	select {
	case c.Send() <- msg:
	default:
		log.Printf("[Gateway] WARN: dropping %s for slow client %s", msg.Type, playerID)
	}
}

func (g *Gateway) sendError(c *network.Client, message string) {
	msg, err := network.NewMessage(match.EventError, match.ErrorPayload{Message: message})
	if err != nil {
		log.Printf("[Gateway] ERROR: marshal error payload: %v", err)
		return
	}
	select {
	case c.Send() <- msg:
	default:
	}
}
