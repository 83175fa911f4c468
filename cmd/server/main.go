// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"rpsduel/internal/config"
	"rpsduel/internal/match"
	"rpsduel/internal/network"
	"rpsduel/internal/services/cluster"
	"rpsduel/internal/services/events"
	"rpsduel/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	// Publicador de resultados (opcional). Sem NATS_URL o jogo roda normal,
	// só não publica os resumos de partida.
	var onFinish func(match.Summary)
	if cfg.NATSURL != "" {
		publisher, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Could not connect to NATS at %s: %v", cfg.NATSURL, err)
		}
		defer publisher.Close()
		onFinish = publisher.MatchFinished
	}

	// O gateway é o Sink do registro e o registro é a dependência do gateway.
	gateway := session.NewGateway()
	registry := match.NewRegistry(gateway, cfg.RoundTimeout, cfg.IdleMatchTimeout, onFinish)
	gateway.AttachRegistry(registry)
	go registry.Run()

	server := network.NewServer(gateway)
	server.Handle("/health", cluster.NewHealthHandler())
	server.Handle("/", spaHandler(cfg.StaticDir))

	// Registro no Consul (opcional), para quando o servidor roda em cluster.
	if cfg.ConsulAddr != "" {
		if err := cluster.Register(cfg.ConsulAddr, cfg.ServiceName, cfg.Port); err != nil {
			log.Fatalf("Could not register in consul: %v", err)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := server.Listen(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// spaHandler serve o bundle do cliente. Qualquer rota que não corresponda a um
// arquivo volta para o index.html: o roteamento de telas vive no cliente.
func spaHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			if r.URL.Path != "/" {
				http.ServeFile(w, r, index)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	})
}
