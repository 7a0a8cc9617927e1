package controllers

import (
	"net/http"

	"github.com/catcoin/pos-backend/api/responses"
	"github.com/catcoin/pos-backend/internal/reconcile"
	"github.com/catcoin/pos-backend/internal/reports"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

// XReport summarizes ?date= (default today) from the ledger.
func XReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		report, err := svc.XReport(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reports.ToDTO(*report))
	}
}

// Reconcile compares the stored aggregate for ?date= with the ledger.
func Reconcile(svc reconcile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reconcile service unavailable"))
			return
		}
		result, err := svc.Check(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !result.Matches && logg != nil {
			ctx := logg.WithField(r.Context(), "date", result.Date)
			logg.Warn(ctx, "daily stats disagree with sale ledger")
		}
		responses.WriteSuccess(w, reconcile.ToDTO(*result))
	}
}
