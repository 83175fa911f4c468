package cluster

import (
	"fmt"
	"net/http"
)

// NewHealthHandler retorna um liveness check simples: confirma que o processo
// está rodando e o servidor HTTP respondendo. É o endpoint que o check do
// Consul consulta.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Service is alive.")
	}
}
