package network

import (
	"log"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um jogador conectado do ponto de vista do servidor.
// Ele agrupa a conexão WebSocket e o canal de saída.
type Client struct {
	// A conexão real com o jogador.
	conn *websocket.Conn

	// Uma referência ao Hub central. O cliente usa isso para se (des)registrar.
	hub *Hub

	// Canal bufferizado de mensagens de saída. O buffer evita que quem envia
	// bloqueie se o cliente estiver lento para consumir.
	send chan Message
}

// Conn retorna a conexão net.Conn subjacente do cliente.
// Útil para o EventHandler obter o endereço remoto do jogador.
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// Send expõe o canal de saída do cliente. É a única forma segura de enviar
// uma mensagem para ele; nunca escreva diretamente na conexão.
func (c *Client) Send() chan<- Message {
	return c.send
}

func (c *Client) readLoop() {
	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// Cada pong recebido renova o deadline de leitura, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[network] unexpected close from %s: %v", c.conn.RemoteAddr(), err)
			}
			// Para qualquer erro (desconexão normal ou anormal), saímos do loop.
			break
		}

		// Empacota a mensagem com o cliente que a enviou e entrega ao Hub.
		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop bombeia mensagens do canal 'send' do cliente para a conexão.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// O canal 'send' foi fechado pelo Hub: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("[network] write to %s failed: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Se o ping falhar, a conexão está morta.
			}
		}
	}
}
