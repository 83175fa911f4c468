// Package cluster cuida da integração do servidor com o Consul: registro do
// serviço com health check e o handler de liveness correspondente.
package cluster

import (
	"fmt"
	"log"
	"os"

	consul "github.com/hashicorp/consul/api"
)

// Register registra este processo no agente Consul indicado.
// O hostname entra no ID do serviço para que múltiplas instâncias do mesmo
// serviço possam coexistir no catálogo.
func Register(consulAddr, serviceName string, servicePort int) error {
	cfg := consul.DefaultConfig()
	cfg.Address = consulAddr

	client, err := consul.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("create consul client: %w", err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,

		// O agente do Consul preenche o endereço do contêiner que está
		// fazendo o registro; o check precisa de um host resolvível, e o
		// hostname do contêiner resolve via DNS na rede do compose.
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, servicePort),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("register service: %w", err)
	}

	log.Printf("[cluster] service %q registered in consul as %s", serviceName, serviceID)
	return nil
}
