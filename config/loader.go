package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix é o prefixo das variáveis de ambiente (FRACOES_DATABASE_DSN etc.).
const EnvPrefix = "FRACOES"

// Load lê a configuração nesta ordem de prioridade crescente:
//  1. valores padrão
//  2. arquivo de configuração (opcional; qualquer formato aceito pelo viper)
//  3. variáveis de ambiente FRACOES_*
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("falha ao ler arquivo de configuração %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao interpretar configuração: %w", err)
	}
	cfg.Market.Currency = strings.ToUpper(cfg.Market.Currency)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:fracoes.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("market.currency", "BRL")
	v.SetDefault("market.asset_cache_size", 256)

	v.SetDefault("feed.buffer", 64)
}
