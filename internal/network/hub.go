package network

// clientMessage empacota uma mensagem com o cliente que a enviou.
// O Hub precisa de ambos para repassar ao EventHandler.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
// Todo o estado do Hub (e, por consequência, do handler) é tocado apenas pela
// goroutine de Run, o que dispensa locks nessa camada.
type Hub struct {
	// Clientes registrados. Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	// Canal para registrar novos clientes.
	register chan *Client

	// Canal para desregistrar clientes.
	unregister chan *Client

	// Canal por onde as goroutines readLoop entregam mensagens dos clientes.
	incoming chan clientMessage

	// O handler da lógica do jogo que processará os eventos.
	handler EventHandler
}

// NewHub cria, inicializa e retorna um novo Hub.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Fechar o canal 'send' é o sinal para a goroutine
				// writeLoop daquele cliente parar.
				close(client.send)
				h.handler.OnDisconnect(client)
			}

		case clientMsg := <-h.incoming:
			// O Hub não se importa com o conteúdo da mensagem.
			// Ele simplesmente delega para a lógica do jogo.
			h.handler.OnMessage(clientMsg.client, clientMsg.msg)
		}
	}
}
