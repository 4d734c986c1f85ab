package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Totals counts methods over a set of reports.
type Totals struct {
	Classes    int
	Methods    int
	Decompiled int
	Failed     int
}

// Tally sums the method counts of reports.
func Tally(reports []*ClassReport) Totals {
	var t Totals
	for _, r := range reports {
		t.Classes++
		for i := range r.Methods {
			m := &r.Methods[i]
			t.Methods++
			switch {
			case m.Error != "":
				t.Failed++
			case m.Decompiled():
				t.Decompiled++
			}
		}
	}
	return t
}

// Summary writes one table row per class with its method counts.
func Summary(w io.Writer, reports []*ClassReport) error {
	t := table.NewWriter()
	t.SetTitle("Decompilation summary")
	t.AppendHeader(table.Row{"Class", "Java", "Methods", "Decompiled", "Failed"})

	for _, r := range reports {
		c := Tally([]*ClassReport{r})
		t.AppendRow(table.Row{r.ClassName, r.JavaVersion, c.Methods, c.Decompiled, c.Failed})
	}

	total := Tally(reports)
	t.AppendFooter(table.Row{fmt.Sprintf("%d classes", total.Classes), "", total.Methods, total.Decompiled, total.Failed})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
