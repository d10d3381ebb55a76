package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/ferreirogomes/fracoes/services"
	"github.com/spf13/cobra"
)

var portfolioOwner int64

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Mostra a carteira de um usuário",
	RunE: func(cmd *cobra.Command, args []string) error {
		if portfolioOwner <= 0 {
			return fmt.Errorf("--owner é obrigatório")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		holdings, err := a.portfolio.Holdings(cmd.Context(), portfolioOwner)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ATIVO\tNOME\tUNIDADES\tVALOR/UNIDADE\tVALOR ESTIMADO")
		for _, h := range holdings {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", h.AssetID, h.AssetName, h.Units,
				h.PerUnit.StringFixed(4), models.FormatMoney(h.EstimatedValue, cfg.Market.Currency))
		}
		fmt.Fprintf(w, "\t\t\tTOTAL\t%s\n", models.FormatMoney(services.Total(holdings), cfg.Market.Currency))
		return w.Flush()
	},
}

func init() {
	portfolioCmd.Flags().Int64Var(&portfolioOwner, "owner", 0, "ID do usuário")
	rootCmd.AddCommand(portfolioCmd)
}
