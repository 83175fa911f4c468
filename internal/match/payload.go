package match

import (
	"rpsduel/internal/game/card"
	"rpsduel/internal/game/stats"
)

// Nomes dos eventos de saída. São o contrato com o cliente web, então seguem
// o snake_case que ele espera.
const (
	EventGameStart   = "game_start"
	EventRoundResult = "round_result"
	EventGameOver    = "game_over"
	EventError       = "error"
)

// Resultado de uma rodada (ou da partida) do ponto de vista de um jogador.
const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultDraw = "draw"
)

// GameStartPayload é enviado uma vez para cada jogador quando as mãos são
// distribuídas.
type GameStartPayload struct {
	Hand     card.Pile        `json:"hand"`
	Stats    stats.Statistics `json:"stats"`
	Opponent string           `json:"opponent"`
}

// RoundResultPayload é enviado para cada jogador após cada rodada resolvida.
type RoundResultPayload struct {
	Result        string           `json:"result"`
	OptimalChoice card.Card        `json:"optimalChoice"`
	NewStats      stats.Statistics `json:"newStats"`
}

// GameOverPayload encerra a partida: placar final e vencedor por pontos.
// Winner fica vazio quando a partida termina empatada.
type GameOverPayload struct {
	Result        string `json:"result"`
	Winner        string `json:"winner,omitempty"`
	YourScore     int    `json:"yourScore"`
	OpponentScore int    `json:"opponentScore"`
	Reason        string `json:"reason,omitempty"`
}

// ErrorPayload carrega a mensagem legível de qualquer falha do motor.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Summary é o registro de uma partida encerrada, publicado no barramento de
// eventos quando ele está configurado.
type Summary struct {
	MatchID  string         `json:"matchId"`
	Rounds   int            `json:"rounds"`
	WinnerID string         `json:"winnerId,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Players  []PlayerResult `json:"players"`
}

// PlayerResult é a linha de um jogador dentro do Summary.
type PlayerResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}
