package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catcoin/pos-backend/internal/checkout"
	"github.com/catcoin/pos-backend/internal/export"
	"github.com/catcoin/pos-backend/pkg/config"
	"github.com/catcoin/pos-backend/pkg/db/models"
	"github.com/catcoin/pos-backend/pkg/enums"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
	"github.com/catcoin/pos-backend/pkg/logger"
)

type stubCheckout struct {
	got checkout.CommitInput
	err error
}

func (s *stubCheckout) Commit(_ context.Context, input checkout.CommitInput) (*models.Sale, error) {
	s.got = input
	if s.err != nil {
		return nil, s.err
	}
	return &models.Sale{ID: 1, PaymentMethod: input.PaymentMethod}, nil
}

func TestCommitSaleIgnoresClientTotals(t *testing.T) {
	stub := &stubCheckout{}
	body := `{"items":[{"id":3,"name":"Milk Tea","price":"5.50","quantity":2}],"payment_method":" CASH ","subtotal":0,"tax":0,"total":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CommitSale(stub, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, enums.PaymentMethodCash, stub.got.PaymentMethod)
	require.Len(t, stub.got.Items, 1)
	line := stub.got.Items[0]
	assert.Equal(t, int64(3), line.ProductID)
	assert.True(t, decimal.RequireFromString("5.50").Equal(line.UnitPrice))
	assert.Equal(t, 2, line.Quantity)
}

func TestCommitSaleKeepsUnknownPaymentMethod(t *testing.T) {
	stub := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")}
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(`{"items":[],"payment_method":"iou"}`))
	resp := httptest.NewRecorder()
	CommitSale(stub, logger.Nop()).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, enums.PaymentMethod("iou"), stub.got.PaymentMethod)
}

func TestCommitSaleMapsPersistenceFailure(t *testing.T) {
	stub := &stubCheckout{err: pkgerrors.Wrap(pkgerrors.CodePersistenceFailure, errors.New("disk full"), "append sale")}
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(`{"items":[{"id":1,"price":1,"quantity":1}],"payment_method":"cash"}`))
	resp := httptest.NewRecorder()
	CommitSale(stub, logger.Nop()).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "PERSISTENCE_FAILURE")
	assert.NotContains(t, resp.Body.String(), "disk full")
}

func TestHandlersWithoutServiceReturnInternal(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"commit":   CommitSale(nil, nil),
		"products": ListProducts(nil, nil),
		"sales":    ListSales(nil, nil),
		"today":    TodayStats(nil, nil),
		"xreport":  XReport(nil, nil),
		"export":   ExportSales(nil, export.FormatCSV, nil),
	}
	for name, h := range handlers {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.Code, name)
	}
}

type failingPinger struct{ err error }

func (f failingPinger) Ping(context.Context) error { return f.err }

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, failingPinger{err: errors.New("db locked")}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, failingPinger{}, failingPinger{err: errors.New("redis down")}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, failingPinger{}, failingPinger{}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"redis":"ok"`)
}
