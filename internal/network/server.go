package network

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server é a estrutura principal do servidor de rede. Ele gerencia um Hub e o
// mux HTTP onde a rota /ws e as rotas auxiliares (health, arquivos estáticos)
// são montadas.
type Server struct {
	hub *Hub
	mux *http.ServeMux
}

// upgrader armazena as configurações para promover uma conexão HTTP para WebSocket.
var upgrader = websocket.Upgrader{
	// CheckOrigin controla quais domínios podem se conectar.
	// O cliente web é servido de qualquer lugar, então aceitamos qualquer origem.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer aceita um EventHandler e o injeta no Hub.
// Este é o ponto de injeção da lógica do jogo.
func NewServer(handler EventHandler) *Server {
	s := &Server{
		hub: NewHub(handler),
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/ws", s.wsHandler)
	return s
}

// Handle monta uma rota auxiliar no mux do servidor (health check, bundle do
// cliente). A rota /ws já está reservada.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// wsHandler promove a requisição HTTP para uma conexão WebSocket persistente
// e registra o novo cliente no Hub.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[network] upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// Start inicia a goroutine do Hub sem abrir o listener HTTP. Existe para os
// testes de ponta a ponta, que montam o servidor dentro de um httptest.Server.
func (s *Server) Start() {
	go s.hub.Run()
}

// Handler expõe o mux completo do servidor.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Listen inicia a goroutine do Hub e o servidor HTTP. Bloqueia até o servidor
// cair.
func (s *Server) Listen(address string) error {
	s.Start()

	log.Printf("[network] listening on ws://%s/ws", address)
	return http.ListenAndServe(address, s.mux)
}
