package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/catcoin/pos-backend/api/responses"
	"github.com/catcoin/pos-backend/api/validators"
	"github.com/catcoin/pos-backend/internal/checkout"
	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/pkg/enums"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

// CommitSale turns a paid cart into a sale. Client-side subtotal, tax and
// total are accepted for compatibility but the server prices the cart itself.
func CommitSale(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var payload commitSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Commit(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sales.ToDTO(*sale))
	}
}

// ListSales returns the ledger newest first.
func ListSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales.ToDTOs(rows))
	}
}

func GetSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales.ToDTO(*sale))
	}
}

type commitSaleRequest struct {
	Items         []saleItemRequest `json:"items"`
	PaymentMethod string            `json:"payment_method"`
	Subtotal      *decimal.Decimal  `json:"subtotal,omitempty"`
	Tax           *decimal.Decimal  `json:"tax,omitempty"`
	Total         *decimal.Decimal  `json:"total,omitempty"`
}

// saleItemRequest is one cart line; id is the product id. Line checks live in
// checkout so every caller gets the same errors.
type saleItemRequest struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (p commitSaleRequest) toInput() checkout.CommitInput {
	lines := make([]checkout.CartLine, len(p.Items))
	for i, item := range p.Items {
		lines[i] = checkout.CartLine{
			ProductID: item.ID,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		}
	}
	method, err := enums.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		// left as-is so checkout reports the rejected value
		method = enums.PaymentMethod(p.PaymentMethod)
	}
	return checkout.CommitInput{Items: lines, PaymentMethod: method}
}
