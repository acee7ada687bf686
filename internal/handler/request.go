package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bank-ledger/internal/money"
)

// MaxBodyBytes caps every request body the API reads.
const MaxBodyBytes = 1 << 16

// decodeJSON rejects unknown fields and trailing data. A malformed amount
// surfaces as money.ErrInvalidFormat so callers can answer with the amount
// specific code.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func respondDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, money.ErrInvalidFormat) {
		RespondAppError(w, ErrInvalidAmountFormat, nil)
		return
	}
	RespondAppError(w, ErrInvalidRequest, nil)
}

func uuidFromPath(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func validateAmount(field string, amount *money.Money) []FieldError {
	if amount == nil {
		return []FieldError{{Field: field, Message: "required"}}
	}
	if !amount.IsPositive() {
		return []FieldError{{Field: field, Message: "must be greater than 0"}}
	}
	return nil
}
