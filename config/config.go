package config

import (
	"fmt"
	"time"

	"github.com/ferreirogomes/fracoes/storage"
)

// Config é a configuração completa do servidor.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Market   MarketConfig   `mapstructure:"market"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MaxOpenConns   int    `mapstructure:"max_open_conns"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// MarketConfig controla a exibição de valores e o cache de ativos.
type MarketConfig struct {
	Currency       string `mapstructure:"currency"`
	AssetCacheSize int    `mapstructure:"asset_cache_size"`
}

type FeedConfig struct {
	// Buffer é a fila de cada cliente do websocket; clientes lentos perdem mensagens.
	Buffer int `mapstructure:"buffer"`
}

// StorageOptions converte a seção database nas opções do storage.
func (c DatabaseConfig) StorageOptions() storage.Options {
	return storage.Options{
		Driver:         storage.Dialect(c.Driver),
		DSN:            c.DSN,
		MaxOpenConns:   c.MaxOpenConns,
		MigrateOnStart: c.MigrateOnStart,
	}
}

// Validate confere a configuração carregada.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr é obrigatório")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout deve ser positivo")
	}
	switch storage.Dialect(c.Database.Driver) {
	case storage.Postgres, storage.SQLite:
	default:
		return fmt.Errorf("database.driver deve ser %q ou %q, recebido %q", storage.Postgres, storage.SQLite, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn é obrigatório")
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns não pode ser negativo")
	}
	if len(c.Market.Currency) != 3 {
		return fmt.Errorf("market.currency deve ser um código ISO 4217, recebido %q", c.Market.Currency)
	}
	if c.Market.AssetCacheSize <= 0 {
		return fmt.Errorf("market.asset_cache_size deve ser positivo")
	}
	if c.Feed.Buffer <= 0 {
		return fmt.Errorf("feed.buffer deve ser positivo")
	}
	return nil
}
