package controllers

import (
	"net/http"

	"github.com/catcoin/pos-backend/api/responses"
	"github.com/catcoin/pos-backend/internal/stats"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

// TodayStats returns today's aggregate, zero-valued before the first sale.
func TodayStats(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}
		row, err := svc.Today(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats.ToDTO(*row))
	}
}

// RangeStats returns aggregates for ?start=&end= (inclusive), newest first.
func RangeStats(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}
		q := r.URL.Query()
		rows, err := svc.Range(r.Context(), q.Get("start"), q.Get("end"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats.ToDTOs(rows))
	}
}
