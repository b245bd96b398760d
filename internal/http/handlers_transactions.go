package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/store"
)

// transactionJSON is the wire shape of a transaction. Amounts travel as
// JSON numbers; dates as RFC3339.
type transactionJSON struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	Categories    []string  `json:"categories"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	Description   string    `json:"description,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	cats := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		cats[i] = string(c)
	}
	return transactionJSON{
		ID:            t.ID,
		Amount:        t.Amount.InexactFloat64(),
		Type:          string(t.Type),
		Categories:    cats,
		Date:          t.Date,
		PaymentMethod: string(t.PaymentMethod),
		Description:   t.Description,
	}
}

// createTransactionRequest keeps the amount as a raw JSON number so
// fractional inputs survive decoding without a float round-trip.
type createTransactionRequest struct {
	Amount        json.Number `json:"amount"`
	Type          string      `json:"type"`
	Categories    []string    `json:"categories"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"paymentMethod"`
	Description   string      `json:"description"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.listTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	txType, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid transaction type")
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	cats := make([]core.Category, 0, len(req.Categories))
	for _, c := range req.Categories {
		cat, err := core.ParseCategory(c)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "invalid category: "+c)
			return
		}
		cats = append(cats, cat)
	}

	method := core.OtherMethod
	if pm := strings.TrimSpace(req.PaymentMethod); pm != "" {
		method, err = core.ParsePaymentMethod(pm)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "invalid payment method")
			return
		}
	}
	tx := core.Transaction{
		Amount:        amount,
		Type:          txType,
		Categories:    cats,
		Date:          date,
		PaymentMethod: method,
		Description:   strings.TrimSpace(req.Description),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.backend.Append(r.Context(), tx)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction append failed",
			log.FieldError, err, log.FieldAmount, amount.String(), log.FieldTxType, string(txType))
		writeError(w, r, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	s.invalidate()

	tx.ID = ref
	s.logger.InfoContext(r.Context(), "Transaction created",
		log.FieldTransactionID, ref, log.FieldTxType, string(txType), log.FieldAmount, amount.String())
	writeJSON(w, r, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.backend.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Transaction delete failed",
			log.FieldError, err, log.FieldTransactionID, id)
		writeError(w, r, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	s.invalidate()

	s.logger.InfoContext(r.Context(), "Transaction deleted", log.FieldTransactionID, id)
	w.WriteHeader(http.StatusNoContent)
}
