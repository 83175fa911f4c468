package card

import "errors"

// Card é o valor de uma carta do baralho. No nosso jogo só existem três tipos,
// então um tipo string com constantes é suficiente e mantém o JSON legível.
type Card string

const (
	Rock     Card = "rock"
	Paper    Card = "paper"
	Scissors Card = "scissors"
)

// Types lista os tipos em ordem fixa. Essa ordem é usada como prioridade de
// desempate no cálculo da jogada ótima, então não deve ser alterada.
var Types = []Card{Rock, Paper, Scissors}

// ErrIllegalCard indica que o valor recebido do cliente não é uma carta válida.
var ErrIllegalCard = errors.New("illegal card value")

// Parse valida um valor vindo da rede e o converte para Card.
func Parse(s string) (Card, error) {
	switch Card(s) {
	case Rock, Paper, Scissors:
		return Card(s), nil
	}
	return "", ErrIllegalCard
}

func (c Card) String() string { return string(c) }
