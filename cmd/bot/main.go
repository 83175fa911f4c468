// cmd/bot/main.go
//
// Bot de prática: conecta no servidor, entra em uma partida e joga sempre a
// carta sugerida pelo conselho de jogada ótima. Serve de oponente de treino e
// de sonda manual de ponta a ponta do protocolo.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rpsduel/internal/game/card"
	"rpsduel/internal/game/stats"
	"rpsduel/internal/match"
	"rpsduel/internal/network"
	"rpsduel/internal/session"
)

func main() {
	addr := flag.String("addr", "localhost:3000", "server host:port")
	gameID := flag.String("game", "", "game id to join (random when empty)")
	name := flag.String("name", "optimal-bot", "username shown to the opponent")
	flag.Parse()

	if *gameID == "" {
		*gameID = uuid.NewString()
		log.Printf("No game id given, using %s — share it with your opponent.", *gameID)
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Connection FAIL: could not connect to %s: %v", u.String(), err)
	}
	defer conn.Close()

	send(conn, session.EventJoinGame, session.JoinGamePayload{Username: *name, GameID: *gameID})
	log.Printf("Joined game %s as %s. Waiting for opponent...", *gameID, *name)

	var hand card.Pile

	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Fatalf("Connection lost: %v", err)
		}

		switch msg.Type {
		case match.EventGameStart:
			var p match.GameStartPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				log.Fatalf("Bad game_start payload: %v", err)
			}
			hand = p.Hand
			log.Printf("Game started against %s. Hand: %s", p.Opponent, &hand)
			playRound(conn, &hand, p.Stats, *gameID)

		case match.EventRoundResult:
			var p match.RoundResultPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				log.Fatalf("Bad round_result payload: %v", err)
			}
			log.Printf("Round result: %s (advisory was %s)", p.Result, p.OptimalChoice)
			playRound(conn, &hand, p.NewStats, *gameID)

		case match.EventGameOver:
			var p match.GameOverPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				log.Fatalf("Bad game_over payload: %v", err)
			}
			log.Printf("Game over: %s (%d x %d), winner: %s", p.Result, p.YourScore, p.OpponentScore, p.Winner)
			return

		case match.EventError:
			var p match.ErrorPayload
			json.Unmarshal(msg.Payload, &p)
			log.Printf("Server error: %s", p.Message)
		}
	}
}

// playRound escolhe e envia a próxima carta: a sugerida pelas estatísticas
// quando ela ainda está na mão, senão a primeira disponível.
func playRound(conn *websocket.Conn, hand *card.Pile, st stats.Statistics, gameID string) {
	if hand.Size() == 0 {
		return
	}

	choice, err := stats.OptimalChoice(st)
	if err != nil || !hand.Contains(choice) {
		choice = (*hand)[0]
	}
	hand.Remove(choice)

	// Um delay aleatório simula um jogador pensando antes de jogar.
	time.Sleep(time.Duration(500+rand.IntN(1500)) * time.Millisecond)

	log.Printf("Playing %s (%d cards left)", choice, hand.Size())
	send(conn, session.EventPlayCard, session.PlayCardPayload{GameID: gameID, Card: choice.String()})
}

func send(conn *websocket.Conn, eventType string, data any) {
	msg, err := network.NewMessage(eventType, data)
	if err != nil {
		log.Fatalf("Could not build %s message: %v", eventType, err)
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Fatalf("Write FAIL: %v", err)
	}
}
