package models

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney formata um valor decimal na moeda informada (ex.: "R$12,00" para BRL).
// O valor é arredondado para as casas decimais da moeda.
func FormatMoney(value decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		// moeda desconhecida: devolve o decimal cru com duas casas
		return value.StringFixed(2) + " " + currency
	}
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
