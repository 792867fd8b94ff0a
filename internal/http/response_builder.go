package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"moneymanagement/internal/aggregate"
	"moneymanagement/internal/core"
)

// envelope is the uniform response shape: exactly one of Data and Error is
// set.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: &errorBody{Message: message}}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

type transactionJSON struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Date        string    `json:"date"`
	Note        string    `json:"note,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

// listItemJSON is one element of the grouped transaction list. Kind is
// "header" or "transaction" and selects which of the remaining fields are
// set.
type listItemJSON struct {
	Kind        string           `json:"kind"`
	Date        string           `json:"date,omitempty"`
	Weekday     string           `json:"weekday,omitempty"`
	Transaction *transactionJSON `json:"transaction,omitempty"`
	Category    *categoryJSON    `json:"category,omitempty"`
}

type bucketJSON struct {
	Label   string `json:"label"`
	Income  int64  `json:"income_cents"`
	Expense int64  `json:"expense_cents"`
}

func serializeTransaction(tx core.Transaction) *transactionJSON {
	return &transactionJSON{
		ID:          tx.ID,
		CategoryID:  tx.CategoryID,
		Name:        tx.Name,
		AmountCents: tx.Amount.Cents,
		Amount:      formatAmount(tx.Amount),
		Date:        tx.Date,
		Note:        tx.Note,
		Type:        string(tx.Type),
		CreatedAt:   tx.CreatedAt,
	}
}

func serializeCategory(cat core.Category) *categoryJSON {
	return &categoryJSON{
		ID:   cat.ID,
		Name: cat.Name,
		Icon: cat.Icon,
		Type: string(cat.Type),
	}
}

func serializeCategories(cats []core.Category) []*categoryJSON {
	out := make([]*categoryJSON, 0, len(cats))
	for _, cat := range cats {
		out = append(out, serializeCategory(cat))
	}
	return out
}

// serializeListItems flattens the header/rows sequence the aggregation
// layer produces into kinded JSON items.
func serializeListItems(items []aggregate.ListItem) []listItemJSON {
	out := make([]listItemJSON, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case aggregate.DateHeader:
			out = append(out, listItemJSON{
				Kind:    "header",
				Date:    v.Date,
				Weekday: v.Weekday,
			})
		case aggregate.TransactionRow:
			entry := listItemJSON{
				Kind:        "transaction",
				Transaction: serializeTransaction(v.Entry.Transaction),
			}
			if v.Entry.Category != nil {
				entry.Category = serializeCategory(*v.Entry.Category)
			}
			out = append(out, entry)
		}
	}
	return out
}

func serializeBuckets(buckets []aggregate.Bucket) []bucketJSON {
	out := make([]bucketJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketJSON{
			Label:   b.Label,
			Income:  b.Income.Cents,
			Expense: b.Expense.Cents,
		})
	}
	return out
}

// formatAmount renders an amount as a decimal string in whole currency
// units, always with two fraction digits.
func formatAmount(m core.Money) string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}
