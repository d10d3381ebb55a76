package cli

import (
	"fmt"
	"os"

	"github.com/ferreirogomes/fracoes/config"
	"github.com/spf13/cobra"
)

var configFile string

// version é substituído no build com -ldflags "-X github.com/ferreirogomes/fracoes/cli.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fracoes",
	Short: "Mercado de frações de ativos",
	Long: `fracoes mantém o razão de propriedade fracionada de ativos: cadastro de ativos e
usuários, ofertas de compra e venda, liquidação atômica das negociações e histórico de valor.`,
	SilenceUsage: true,
	Version:      version,
}

// Execute roda o comando escolhido. Chamado por main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "arquivo de configuração (yaml, toml ou json)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}
