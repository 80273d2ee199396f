package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/billforge/billforge/internal/logger"
)

// tracedQuerier logs every statement with its duration and, when running
// inside a transaction, the transaction ID. It covers the call shapes the
// repositories use.
type tracedQuerier struct {
	inner  Querier
	logger *logger.Logger
	txID   string
}

func newTracedQuerier(q Querier, logger *logger.Logger, txID string) Querier {
	return &tracedQuerier{inner: q, logger: logger, txID: txID}
}

func (tq *tracedQuerier) trace(query string, params interface{}, start time.Time, err error) {
	fields := []interface{}{
		"duration_ms", time.Since(start).Milliseconds(),
		"query", query,
		"params", fmt.Sprintf("%+v", params),
	}
	if tq.txID != "" {
		fields = append(fields, "tx_id", tq.txID)
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
		tq.logger.Errorw("database query failed", fields...)
		return
	}
	tq.logger.Debugw("database query completed", fields...)
}

func (tq *tracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := tq.inner.ExecContext(ctx, query, args...)
	tq.trace(query, args, start, err)
	return result, err
}

func (tq *tracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.inner.GetContext(ctx, dest, query, args...)
	tq.trace(query, args, start, err)
	return err
}

func (tq *tracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.inner.SelectContext(ctx, dest, query, args...)
	tq.trace(query, args, start, err)
	return err
}

func (tq *tracedQuerier) NamedExec(query string, arg interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := tq.inner.NamedExec(query, arg)
	tq.trace(query, arg, start, err)
	return result, err
}
