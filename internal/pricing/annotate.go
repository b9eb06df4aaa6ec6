package pricing

import (
	"math"

	"divicards/internal/grouping"
	"divicards/internal/models"
)

// Row is one display line: a group with its unit price and total value.
type Row struct {
	Name     string      `json:"name"`
	Variant  string      `json:"variant,omitempty"`
	Tier     int         `json:"tier,omitempty"`
	Level    int         `json:"level,omitempty"`
	Quality  int         `json:"quality,omitempty"`
	TabIndex int         `json:"tab_index"`
	Qty      int         `json:"qty"`
	Price    float64     `json:"price"`
	Total    float64     `json:"total"`
	Sample   models.Item `json:"sample"`
}

// Annotate prices every group; unknown keys cost 0.
func Annotate(groups []grouping.Group, prices Table) []Row {
	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		price := prices.Price(g.Key)
		rows = append(rows, Row{
			Name:     g.Key.Name,
			Variant:  g.Key.Variant,
			Tier:     g.Key.Tier,
			Level:    g.Key.Level,
			Quality:  g.Key.Quality,
			TabIndex: g.TabIndex,
			Qty:      g.Total,
			Price:    price,
			Total:    RoundTenth(price * float64(g.Total)),
			Sample:   g.Sample,
		})
	}
	return rows
}

// RoundTenth rounds to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Sum adds up the totals of rows.
func Sum(rows []Row) float64 {
	var s float64
	for _, r := range rows {
		s += r.Total
	}
	return RoundTenth(s)
}
