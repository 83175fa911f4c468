package session

// Nomes dos eventos de entrada, fixados pelo cliente web.
const (
	EventJoinGame = "join_game"
	EventPlayCard = "play_card"
)

// JoinGamePayload é o pedido de entrada em uma partida.
type JoinGamePayload struct {
	Username string `json:"username"`
	GameID   string `json:"gameId"`
}

// PlayCardPayload é o pedido de jogada de uma carta.
type PlayCardPayload struct {
	GameID string `json:"gameId"`
	Card   string `json:"card"`
}
