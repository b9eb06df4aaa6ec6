package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"divicards/internal/grouping"
	"divicards/internal/models"
	"divicards/internal/pricing"
	"divicards/internal/sample"
	"divicards/internal/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func chaos(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printTabs(w io.Writer, tabs []models.StashTab) {
	rows := make([][]string, 0, len(tabs))
	for _, t := range tabs {
		rows = append(rows, []string{strconv.Itoa(t.Index), t.ID, t.Name, t.Type, t.Parent})
	}
	fmt.Fprintln(w, renderTable([]string{"Index", "ID", "Name", "Type", "Parent"}, rows))
}

func printPriceNote(w io.Writer, res pricing.Result) {
	switch {
	case res.Degraded():
		fmt.Fprintln(w, warnStyle.Render("prices unavailable: "+res.ErrorMessage()))
	case res.PriceLeague != res.League:
		fmt.Fprintln(w, warnStyle.Render("prices from "+res.PriceLeague))
	}
}

// printRows shows columns that matter for the category.
func printRows(w io.Writer, c grouping.Category, p pricing.Page, sum float64, res pricing.Result) {
	headers := []string{"Name"}
	switch c {
	case grouping.Essence:
		headers = append(headers, "Variant")
	case grouping.Map:
		headers = append(headers, "Tier")
	case grouping.Gem:
		headers = append(headers, "Level", "Quality")
	}
	headers = append(headers, "Tab", "Qty", "Price", "Total")

	rows := make([][]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		row := []string{r.Name}
		switch c {
		case grouping.Essence:
			row = append(row, r.Variant)
		case grouping.Map:
			row = append(row, strconv.Itoa(r.Tier))
		case grouping.Gem:
			row = append(row, strconv.Itoa(r.Level), strconv.Itoa(r.Quality))
		}
		row = append(row, strconv.Itoa(r.TabIndex), strconv.Itoa(r.Qty), chaos(r.Price), chaos(r.Total))
		rows = append(rows, row)
	}

	fmt.Fprintln(w, renderTable(headers, rows))
	if label := p.Label(); label != "" {
		fmt.Fprintln(w, label)
	}
	fmt.Fprintf(w, "total: %s chaos\n", chaos(sum))
	printPriceNote(w, res)
}

func printPriceSummary(w io.Writer, results []pricing.Result) {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			string(res.Category),
			res.PriceLeague,
			strconv.Itoa(len(res.Prices)),
			res.ErrorMessage(),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Category", "Price league", "Prices", "Error"}, rows))
}

// printPriceTable lists the top most valuable keys of res.
func printPriceTable(w io.Writer, res pricing.Result, top int) {
	keys := make([]grouping.Key, 0, len(res.Prices))
	for k := range res.Prices {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b grouping.Key) int {
		if c := cmp.Compare(res.Prices[b], res.Prices[a]); c != 0 {
			return c
		}
		return cmp.Compare(a.String(), b.String())
	})
	if top > 0 && len(keys) > top {
		keys = keys[:top]
	}

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k.String(), chaos(res.Prices[k])})
	}
	fmt.Fprintln(w, renderTable([]string{"Item", "Chaos"}, rows))
	printPriceNote(w, res)
}

func printSample(w io.Writer, s sample.Sample) {
	rows := make([][]string, 0, len(s.Cards))
	for _, c := range s.Cards {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Amount), chaos(c.Price), chaos(c.Total)})
	}
	fmt.Fprintln(w, renderTable([]string{"Card", "Amount", "Price", "Total"}, rows))
	fmt.Fprintf(w, "sample %s: %d cards, %s chaos\n", s.ID, s.CardCount(), chaos(s.TotalChaos()))
	if s.PriceError != "" {
		fmt.Fprintln(w, warnStyle.Render("prices unavailable: "+s.PriceError))
	}
}

func printSummaries(w io.Writer, list []storage.Summary) {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.League,
			strconv.Itoa(s.CardCount),
			chaos(s.TotalChaos),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Created", "League", "Cards", "Chaos"}, rows))
}
