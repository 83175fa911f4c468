package network

import "encoding/json"

// Message é o envelope padrão para toda a comunicação.
// Ele contém um tipo para roteamento e um payload com os dados.
// As tags json mantêm a convenção do cliente web original.
type Message struct {
	Type    string          `json:"type"`    // Ex: "join_game", "round_result"
	Payload json.RawMessage `json:"payload"` // Dados específicos, decodificados depois pelo destino.
}

// MaxMessageSize limita o tamanho de uma mensagem de entrada. Um cliente que
// anuncia algo maior está se comportando mal e tem a leitura encerrada.
const MaxMessageSize = 1024 * 1024

// NewMessage monta um envelope serializando o dado como payload.
// Os payloads que enviamos são structs próprias, então a serialização
// só falha por erro de programação; nesse caso devolvemos o erro ao chamador.
func NewMessage(msgType string, data any) (Message, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: payload}, nil
}
