package card

// Constantes para representar o resultado da comparação de cartas.
// Usar constantes torna o código que utiliza esta função muito mais legível.
const (
	Card1Wins = 1
	Card2Wins = -1
	Tie       = 0
)

// winConditions define a regra primária do jogo.
// A chave vence o valor. Ex: "rock" vence "scissors".
var winConditions = map[Card]Card{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Compare executa a batalha entre duas cartas.
// Retorna uma das constantes: Card1Wins, Card2Wins ou Tie.
func Compare(card1, card2 Card) int {
	if winConditions[card1] == card2 {
		return Card1Wins
	}
	if winConditions[card2] == card1 {
		return Card2Wins
	}

	// Tipos iguais: no jogo base não existe desempate, é empate verdadeiro.
	return Tie
}
