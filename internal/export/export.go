// Package export renders the sale ledger as downloadable CSV or JSON.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/catcoin/pos-backend/internal/sales"
	"github.com/catcoin/pos-backend/pkg/db/models"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"ID", "Date", "Subtotal", "Tax", "Total", "Payment Method", "Items"}

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Filename returns the download name of the format.
func (f Format) Filename() string {
	return "sales." + string(f)
}

// ParseFormat accepts csv or json, case-insensitively.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported export format %q", value))
	}
}

// Service exports the ledger.
type Service interface {
	Sales(ctx context.Context, format Format, w io.Writer) error
}

type service struct {
	ledger sales.Repository
}

// NewService builds the export service.
func NewService(ledger sales.Repository) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{ledger: ledger}, nil
}

// Sales writes every sale, newest first, in the requested format.
func (s *service) Sales(ctx context.Context, format Format, w io.Writer) error {
	rows, err := s.ledger.List(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sales for export")
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// WriteCSV writes rows in the order given.
func WriteCSV(w io.Writer, rows []models.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, sale := range rows {
		record := []string{
			strconv.FormatInt(sale.ID, 10),
			sale.CreatedAt.UTC().Format(time.RFC3339),
			sale.Subtotal.StringFixed(2),
			sale.Tax.StringFixed(2),
			sale.Total.StringFixed(2),
			sale.PaymentMethod.String(),
			itemsSummary(sale.Items),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []models.Sale) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sales.ToDTOs(rows))
}

func itemsSummary(items []models.SaleLineItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s(%d)", item.Name, item.Quantity)
	}
	return strings.Join(parts, "; ")
}
