package card

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// CopiesPerType é quantas cópias de cada tipo entram no baralho inicial.
	CopiesPerType = 15

	// DeckSize é o total de cartas do baralho inicial (3 tipos x 15 cópias).
	DeckSize = 3 * CopiesPerType
)

var (
	// ErrInsufficientCards indica uma tentativa de comprar mais cartas do que
	// a pilha possui. Isso é um erro de programação do servidor, não do cliente.
	ErrInsufficientCards = errors.New("not enough cards in pile")

	// ErrCardNotInHand indica que o jogador tentou jogar uma carta que não possui.
	ErrCardNotInHand = errors.New("card not in hand")
)

// Pile é uma sequência ordenada de cartas. Serve tanto para o baralho
// compartilhado quanto para a mão de cada jogador e a pilha de descarte.
type Pile []Card

// NewShuffledPile monta o baralho completo (15 de cada tipo) e o embaralha
// com Fisher-Yates. O rand é injetado para que os testes possam ser
// determinísticos.
func NewShuffledPile(r *rand.Rand) Pile {
	p := make(Pile, 0, DeckSize)
	for _, t := range Types {
		for i := 0; i < CopiesPerType; i++ {
			p = append(p, t)
		}
	}
	p.Shuffle(r)
	return p
}

// Size retorna o número de cartas na pilha.
func (p *Pile) Size() int {
	if p == nil {
		return 0
	}
	return len(*p)
}

// Shuffle embaralha a pilha in-place (Fisher-Yates).
func (p *Pile) Shuffle(r *rand.Rand) {
	n := p.Size()
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		(*p)[i], (*p)[j] = (*p)[j], (*p)[i]
	}
}

// Deal remove e retorna as primeiras n cartas da pilha.
func (p *Pile) Deal(n int) (Pile, error) {
	if n < 0 || n > p.Size() {
		return nil, fmt.Errorf("deal %d from pile of %d: %w", n, p.Size(), ErrInsufficientCards)
	}
	dealt := make(Pile, n)
	copy(dealt, (*p)[:n])
	*p = (*p)[n:]
	return dealt, nil
}

// Remove retira uma ocorrência da carta da pilha.
func (p *Pile) Remove(c Card) error {
	for i, held := range *p {
		if held == c {
			*p = append((*p)[:i], (*p)[i+1:]...)
			return nil
		}
	}
	return ErrCardNotInHand
}

// Contains informa se a pilha possui ao menos uma ocorrência da carta.
func (p *Pile) Contains(c Card) bool {
	for _, held := range *p {
		if held == c {
			return true
		}
	}
	return false
}

// Count conta as ocorrências de um tipo na pilha.
func (p *Pile) Count(c Card) int {
	n := 0
	for _, held := range *p {
		if held == c {
			n++
		}
	}
	return n
}

// Draw remove e retorna a carta em um índice qualquer da pilha.
// Usado para forçar uma jogada aleatória quando o tempo do jogador acaba.
func (p *Pile) Draw(r *rand.Rand) (Card, error) {
	n := p.Size()
	if n == 0 {
		return "", ErrInsufficientCards
	}
	i := r.IntN(n)
	c := (*p)[i]
	*p = append((*p)[:i], (*p)[i+1:]...)
	return c, nil
}

// Add coloca uma carta no fim da pilha.
func (p *Pile) Add(c Card) {
	*p = append(*p, c)
}

func (p *Pile) String() string {
	if p.Size() == 0 {
		return "(empty)"
	}
	parts := make([]string, len(*p))
	for i, c := range *p {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
