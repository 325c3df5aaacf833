package metrics

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartDBCollectors periodically refreshes the inventory and outbox
// gauges straight from Postgres.
func StartDBCollectors(ctx context.Context, db *pgxpool.Pool, interval time.Duration, logger *log.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		updateDBGauges(ctx, db, logger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				updateDBGauges(ctx, db, logger)
			}
		}
	}()
}

func updateDBGauges(ctx context.Context, db *pgxpool.Pool, logger *log.Logger) {
	collectStatusCounts(ctx, db, logger, `SELECT estado, COUNT(*) FROM asientos GROUP BY estado`, "asientos", SetSeatStatusCount)
	collectStatusCounts(ctx, db, logger, `SELECT estado, COUNT(*) FROM boletos GROUP BY estado`, "boletos", SetTicketStatusCount)

	// revenue across all reservations
	{
		var revenue float64
		err := db.QueryRow(ctx, `SELECT COALESCE(SUM(precio), 0) FROM reservas`).Scan(&revenue)
		if err != nil {
			logger.Printf("metrics db query reservas revenue: %v", err)
		} else {
			SetTotalRevenue(revenue)
		}
	}

	// outbox counts by status (+ pending)
	{
		rows, err := db.Query(ctx, `SELECT status, COUNT(*) FROM outbox_messages GROUP BY status`)
		if err != nil {
			logger.Printf("metrics db query outbox: %v", err)
			return
		}
		defer rows.Close()

		var pending int64
		for rows.Next() {
			var status string
			var cnt int64
			if err := rows.Scan(&status, &cnt); err != nil {
				logger.Printf("metrics db scan outbox: %v", err)
				continue
			}
			SetOutboxStatusCount(status, cnt)
			if status == "pending" {
				pending = cnt
			}
		}
		SetOutboxPendingCount(pending)
	}
}

func collectStatusCounts(ctx context.Context, db *pgxpool.Pool, logger *log.Logger, query, table string, set func(string, int64)) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		logger.Printf("metrics db query %s: %v", table, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var cnt int64
		if err := rows.Scan(&status, &cnt); err != nil {
			logger.Printf("metrics db scan %s: %v", table, err)
			continue
		}
		set(status, cnt)
	}
}
