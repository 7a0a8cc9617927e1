package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Store names the backend a driver error came from.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// ErrorDump flattens an error chain for structured logging. The Store*
// fields are set when a Postgres or sqlite driver error is in the chain.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Retryable  bool
	Chain      []string

	Store           string
	StoreCode       string
	StoreConstraint string
	StoreTable      string
	StoreColumn     string
	StoreDetail     string
	StoreMessage    string
}

// Dump walks err and collects what an operator needs to reconcile a failed
// sale: the typed code, the wrap chain and any constraint the store rejected.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pgxErr):
		d.Store = StorePostgres
		d.StoreCode = pgxErr.Code
		d.StoreConstraint = pgxErr.ConstraintName
		d.StoreTable = pgxErr.TableName
		d.StoreColumn = pgxErr.ColumnName
		d.StoreDetail = pgxErr.Detail
		d.StoreMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.Store = StorePostgres
		d.StoreCode = string(pqErr.Code)
		d.StoreConstraint = pqErr.Constraint
		d.StoreTable = pqErr.Table
		d.StoreColumn = pqErr.Column
		d.StoreDetail = pqErr.Detail
		d.StoreMessage = pqErr.Message
	case errors.As(err, &liteErr):
		d.Store = StoreSQLite
		d.StoreCode = fmt.Sprintf("%d", int(liteErr.ExtendedCode))
		d.StoreMessage = liteErr.Error()
		d.StoreConstraint, d.StoreTable, d.StoreColumn = parseSQLiteConstraint(d.StoreMessage)
	}
	return d
}

// Fields returns the dump as log fields, leaving out empty store details.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  string(d.Code),
		"retryable":   d.Retryable,
		"error_chain": d.Chain,
	}
	optional := map[string]string{
		"store":            d.Store,
		"store_code":       d.StoreCode,
		"store_constraint": d.StoreConstraint,
		"store_table":      d.StoreTable,
		"store_column":     d.StoreColumn,
		"store_detail":     d.StoreDetail,
		"store_message":    d.StoreMessage,
	}
	for key, value := range optional {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}

// parseSQLiteConstraint reads sqlite messages of the form
// "CHECK constraint failed: chk_sales_total" or
// "UNIQUE constraint failed: daily_stats.date".
func parseSQLiteConstraint(msg string) (constraint, table, column string) {
	_, target, ok := strings.Cut(msg, "constraint failed: ")
	if !ok {
		return "", "", ""
	}
	target = strings.TrimSpace(target)
	// multi-column unique failures list every column; keep the first
	if first, _, found := strings.Cut(target, ","); found {
		target = first
	}
	if tbl, col, found := strings.Cut(target, "."); found {
		return "", tbl, col
	}
	return target, "", ""
}
