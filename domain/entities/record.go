package entities

// CSVHeader is the header row of the product export
var CSVHeader = []string{"codigo", "nome", "aliquota", "nao_exibir_no_cardapio"}

const (
	FlagYes = "sim"
	FlagNo  = "não"
)

// Record holds the fields read from one product edit form
type Record struct {
	Code           string `json:"codigo"`
	Name           string `json:"nome"`
	TaxRate        string `json:"aliquota"`
	HiddenFromMenu bool   `json:"-"`
}

// HiddenFlag renders HiddenFromMenu the way the export files spell it
func (r Record) HiddenFlag() string {
	if r.HiddenFromMenu {
		return FlagYes
	}
	return FlagNo
}

// Row returns the record as an export row, in header order
func (r Record) Row() []string {
	return []string{r.Code, r.Name, r.TaxRate, r.HiddenFlag()}
}

// ParseHiddenFlag reads an exported flag value back
func ParseHiddenFlag(v string) bool {
	return v == FlagYes
}
