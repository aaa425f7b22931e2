package database

import (
	"time"

	"inkspace/internal/observability"

	"gorm.io/gorm"
)

const metricsStartKey = "inkspace:metrics_start"

// RegisterQueryMetrics records the latency of every gorm operation in
// observability.DatabaseQueryLatency, labelled by operation and table.
func RegisterQueryMetrics(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("metrics:before_"+op, startTimer); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+op, func(tx *gorm.DB) { observeQuery(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(tx *gorm.DB) {
	tx.InstanceSet(metricsStartKey, time.Now())
}

func observeQuery(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(metricsStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	table := tx.Statement.Table
	if table == "" {
		table = "unknown"
	}
	observability.DatabaseQueryLatency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
}
