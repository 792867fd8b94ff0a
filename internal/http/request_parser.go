package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"moneymanagement/internal/core"
	"moneymanagement/internal/services"
)

// maxBodySize caps request bodies at 64 KiB; no API payload comes close.
const maxBodySize = 64 << 10

type transactionRequest struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	// Amount is a decimal string in whole currency units, e.g. "12.50".
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}

type categoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

func decodeBody(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseTransactionInput validates and converts a transaction payload,
// binding it to the authenticated user.
func parseTransactionInput(r *http.Request, userID string) (services.TransactionInput, error) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		return services.TransactionInput{}, err
	}

	amount, err := parseAmountToCents(req.Amount)
	if err != nil {
		return services.TransactionInput{}, err
	}

	date := strings.TrimSpace(req.Date)
	if _, ok := core.ParseDisplayDate(date); !ok {
		return services.TransactionInput{}, fmt.Errorf("invalid date %q, want dd/MM/yyyy", req.Date)
	}

	return services.TransactionInput{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Name:       sanitizeInput(req.Name),
		Amount:     core.Money{Cents: amount},
		Date:       date,
		Note:       sanitizeInput(req.Note),
	}, nil
}

func parseCategoryInput(r *http.Request, userID string) (core.Category, error) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		return core.Category{}, err
	}

	return core.Category{
		UserID: userID,
		Name:   sanitizeInput(req.Name),
		Icon:   sanitizeInput(req.Icon),
		Type:   core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
	}, nil
}

// parseAmountToCents converts a decimal amount string to cents. Comma is
// accepted as the decimal separator. Sub-cent precision is rejected rather
// than rounded.
func parseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}

	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}

func parsePathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseTypeParam reads the ?type= query parameter as a transaction type.
func parseTypeParam(r *http.Request) (core.TransactionType, error) {
	raw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type")))
	t := core.TransactionType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid type %q, want INCOME or EXPENSE", raw)
	}
	return t, nil
}

func parseYearParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}
