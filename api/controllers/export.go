package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/catcoin/pos-backend/api/responses"
	"github.com/catcoin/pos-backend/internal/export"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

// ExportSales streams the ledger as a download in the given format. The
// body is rendered fully before any header is sent so failures still get an
// error envelope.
func ExportSales(svc export.Service, format export.Format, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}
		var buf bytes.Buffer
		if err := svc.Sales(r.Context(), format, &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", format.Filename()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
