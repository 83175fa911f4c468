package match

import "errors"

// Taxonomia de erros do motor de partidas. Todos são recuperáveis na borda da
// conexão: o gateway os converte em eventos "error" e nunca derruba o cliente.
var (
	ErrMatchFull     = errors.New("match is already full")
	ErrDuplicateJoin = errors.New("player already joined this match")
	ErrMatchNotFound = errors.New("match not found")
	ErrNotPlaying    = errors.New("match is not in the playing state")
	ErrAlreadyPlayed = errors.New("card already played this round")
	ErrUnknownPlayer = errors.New("player is not part of this match")
)
