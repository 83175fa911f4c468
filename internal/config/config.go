// Package config carrega a configuração do processo a partir do ambiente.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config reúne tudo que o servidor aceita do ambiente. Os padrões deixam o
// binário utilizável sem nenhuma variável definida: porta 3000, sem Consul e
// sem barramento de eventos.
type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./public"`

	// RoundTimeout é quanto tempo a primeira jogada de uma rodada espera
	// pela segunda antes de uma carta ser jogada à força pelo oponente.
	RoundTimeout time.Duration `env:"ROUND_TIMEOUT" envDefault:"30s"`

	// IdleMatchTimeout é quanto tempo uma partida pode ficar esperando o
	// segundo jogador antes de ser descartada pelo registro.
	IdleMatchTimeout time.Duration `env:"IDLE_MATCH_TIMEOUT" envDefault:"5m"`

	// NATSURL habilita a publicação de resultados de partida quando definido.
	NATSURL string `env:"NATS_URL"`

	// ConsulAddr habilita o registro do serviço no Consul quando definido.
	ConsulAddr  string `env:"CONSUL_HTTP_ADDR"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"rpsduel"`
}

// Load faz o parse do ambiente.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
