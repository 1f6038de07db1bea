package terminal

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"totvs_automation/domain/entities"
)

// renderSummary prints the outcome of a run as a table
func renderSummary(w io.Writer, s entities.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Extração de alíquotas")
	t.AppendHeader(table.Row{"Campo", "Valor"})

	t.AppendRow(table.Row{"Status", string(s.Status)})
	t.AppendRow(table.Row{"Registros", s.Records})
	t.AppendRow(table.Row{"Páginas", s.Pages})
	if s.Records > 0 {
		t.AppendRow(table.Row{"Índices", fmt.Sprintf("%d..%d", s.FirstIndex, s.LastIndex)})
	}
	t.AppendRow(table.Row{"Duração", s.Duration.Round(time.Second).String()})
	if s.OutputPath != "" {
		t.AppendRow(table.Row{"CSV", s.OutputPath})
	}
	if s.JSONPath != "" {
		t.AppendRow(table.Row{"JSON", s.JSONPath})
	}
	if s.Error != "" {
		t.AppendRow(table.Row{"Erro", s.Error})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
