// Package events publica os resultados de partidas encerradas em um
// barramento NATS, para quem quiser consumir (ranking, histórico, métricas).
// O jogo em si não depende disso: sem NATS configurado nada é publicado.
package events

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"rpsduel/internal/match"
)

// SubjectMatchFinished é o assunto onde cada Summary de partida é publicado.
const SubjectMatchFinished = "rpsduel.match.finished"

// Publisher segura a conexão com o NATS.
type Publisher struct {
	nc *nats.Conn
}

// Connect abre a conexão com o servidor NATS.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("rpsduel-server"))
	if err != nil {
		return nil, err
	}
	log.Printf("[events] connected to nats at %s", url)
	return &Publisher{nc: nc}, nil
}

// MatchFinished publica o resumo de uma partida encerrada. Perder um evento
// de histórico não pode afetar o jogo, então falhas são apenas logadas.
func (p *Publisher) MatchFinished(sum match.Summary) {
	data, err := json.Marshal(sum)
	if err != nil {
		log.Printf("[events] ERROR: marshal summary for match %s: %v", sum.MatchID, err)
		return
	}
	if err := p.nc.Publish(SubjectMatchFinished, data); err != nil {
		log.Printf("[events] WARN: publish result of match %s failed: %v", sum.MatchID, err)
	}
}

// Close drena e fecha a conexão.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
	}
}
