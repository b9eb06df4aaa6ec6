// Package sample builds priced divination card samples from stash tabs.
package sample

import (
	"time"

	"github.com/google/uuid"

	"divicards/internal/grouping"
	"divicards/internal/models"
	"divicards/internal/pricing"
)

// Card is one card line of a sample.
type Card struct {
	Name   string  `json:"name"`
	Amount int     `json:"amount"`
	Price  float64 `json:"price"`
	Total  float64 `json:"total"`
}

// Sample is a snapshot of the divination cards found in a set of tabs.
type Sample struct {
	ID          string    `json:"id"`
	League      string    `json:"league"`
	PriceLeague string    `json:"price_league,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Cards       []Card    `json:"cards"`
	// PriceError is set when the sample was priced without a price table.
	PriceError string `json:"price_error,omitempty"`
}

// Build groups the divination cards of tabs and prices them with res. Cards
// are ordered by total value, highest first.
func Build(league string, tabs []models.StashTab, res pricing.Result) Sample {
	groups := grouping.GroupTabs(grouping.DivinationCard, tabs)
	rows := pricing.Annotate(groups, res.Prices)
	pricing.SortRows(rows, pricing.ColumnTotal, pricing.Desc)

	cards := make([]Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, Card{Name: r.Name, Amount: r.Qty, Price: r.Price, Total: r.Total})
	}

	return Sample{
		ID:          uuid.NewString(),
		League:      league,
		PriceLeague: res.PriceLeague,
		CreatedAt:   time.Now().UTC(),
		Cards:       cards,
		PriceError:  res.ErrorMessage(),
	}
}

// CardCount is the number of cards, counting stacks.
func (s Sample) CardCount() int {
	n := 0
	for _, c := range s.Cards {
		n += c.Amount
	}
	return n
}

// TotalChaos is the summed value of all cards.
func (s Sample) TotalChaos() float64 {
	var sum float64
	for _, c := range s.Cards {
		sum += c.Total
	}
	return pricing.RoundTenth(sum)
}
