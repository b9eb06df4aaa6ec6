// Package export writes divination card samples to files and spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"divicards/internal/sample"
)

var header = []string{"name", "amount", "price", "total"}

// Records returns the header and one record per card.
func Records(s sample.Sample) [][]string {
	out := make([][]string, 0, len(s.Cards)+1)
	out = append(out, header)
	for _, c := range s.Cards {
		out = append(out, []string{
			c.Name,
			strconv.Itoa(c.Amount),
			strconv.FormatFloat(c.Price, 'f', -1, 64),
			strconv.FormatFloat(c.Total, 'f', -1, 64),
		})
	}
	return out
}

// WriteCSV writes the sample as comma separated values.
func WriteCSV(w io.Writer, s sample.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Records(s)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
