// Package stats deriva a composição de mão e baralho e o conselho de jogada
// ótima exibido para cada jogador. Tudo aqui é função pura sobre pilhas de
// cartas: nenhuma aleatoriedade, nenhum efeito colateral.
package stats

import (
	"errors"

	"rpsduel/internal/game/card"
)

// ErrEmptyDeck indica que o conselho foi pedido com o baralho restante vazio.
// Sem cartas restantes não existe distribuição de probabilidade para estimar.
var ErrEmptyDeck = errors.New("remaining deck is empty")

// Counts agrupa a contagem de cada tipo. O formato JSON é o que o cliente
// original espera dentro de "hand" e "deck".
type Counts struct {
	Rock     int `json:"rock"`
	Paper    int `json:"paper"`
	Scissors int `json:"scissors"`
}

// Total soma as contagens dos três tipos.
func (c Counts) Total() int { return c.Rock + c.Paper + c.Scissors }

// Of retorna a contagem do tipo pedido.
func (c Counts) Of(t card.Card) int {
	switch t {
	case card.Rock:
		return c.Rock
	case card.Paper:
		return c.Paper
	default:
		return c.Scissors
	}
}

// Statistics é o objeto de valor efêmero recalculado a cada rodada:
// a composição da mão do jogador e do baralho restante compartilhado.
type Statistics struct {
	Hand Counts `json:"hand"`
	Deck Counts `json:"deck"`
}

func countPile(p *card.Pile) Counts {
	return Counts{
		Rock:     p.Count(card.Rock),
		Paper:    p.Count(card.Paper),
		Scissors: p.Count(card.Scissors),
	}
}

// Compute conta as ocorrências de cada tipo na mão e no baralho restante.
func Compute(hand, deck *card.Pile) Statistics {
	return Statistics{
		Hand: countPile(hand),
		Deck: countPile(deck),
	}
}

// OptimalChoice trata o baralho restante como a distribuição de probabilidade
// da próxima carta do oponente e devolve a carta com o maior ganho esperado:
//
//	payoff(rock)     = P(scissors) - P(paper)
//	payoff(paper)    = P(rock)     - P(scissors)
//	payoff(scissors) = P(paper)    - P(rock)
//
// Empates de payoff são resolvidos pela ordem fixa rock > paper > scissors,
// então o resultado é sempre determinístico para as mesmas estatísticas.
func OptimalChoice(s Statistics) (card.Card, error) {
	total := s.Deck.Total()
	if total == 0 {
		return "", ErrEmptyDeck
	}

	pRock := float64(s.Deck.Rock) / float64(total)
	pPaper := float64(s.Deck.Paper) / float64(total)
	pScissors := float64(s.Deck.Scissors) / float64(total)

	payoffs := map[card.Card]float64{
		card.Rock:     pScissors - pPaper,
		card.Paper:    pRock - pScissors,
		card.Scissors: pPaper - pRock,
	}

	best := card.Types[0]
	for _, t := range card.Types[1:] {
		// Estritamente maior: em caso de empate a prioridade da ordem vence.
		if payoffs[t] > payoffs[best] {
			best = t
		}
	}
	return best, nil
}
