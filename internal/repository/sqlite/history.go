package sqlite

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"pricetracker/internal/repository"
	"pricetracker/internal/scraper"
)

// SavePrice appends a price observation and upserts the product's
// latest snapshot in one transaction. Error-status results are skipped:
// the history never records a placeholder price.
func (r *Repository) SavePrice(ctx context.Context, target scraper.ProductTarget, result scraper.ExtractionResult) error {
	const opn = "repository.sqlite.SavePrice"

	if result.Status != scraper.StatusSuccess || result.NumericPrice == nil {
		r.log.Warn().
			Str("product_id", target.ID).
			Str("url", target.URL).
			Msg("Skipping record with no usable price")
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback()

	now := time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO prices (recorded_at, product_id, price, currency, availability) VALUES (?, ?, ?, ?, ?)`,
		now, target.ID, *result.NumericPrice, result.Currency, result.Availability,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert price: %w", opn, err)
	}

	title := result.Title
	if target.Name != "" {
		title = target.Name
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (product_id, title, url, last_checked, last_price, currency, availability, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(product_id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			last_checked = excluded.last_checked,
			last_price = excluded.last_price,
			currency = excluded.currency,
			availability = excluded.availability,
			image_url = excluded.image_url`,
		target.ID, title, target.URL, now, *result.NumericPrice, result.Currency, result.Availability, result.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to upsert product snapshot: %w", opn, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	r.log.Info().
		Str("product_id", target.ID).
		Float64("price", *result.NumericPrice).
		Msg("Price recorded")

	return nil
}

// PreviousPrice returns the most recent recorded price for a product.
func (r *Repository) PreviousPrice(ctx context.Context, productID string) (float64, error) {
	const opn = "repository.sqlite.PreviousPrice"

	var price float64
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM prices WHERE product_id = ? ORDER BY recorded_at DESC, id DESC LIMIT 1`,
		productID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNoHistory
		}
		return 0, fmt.Errorf("%s: failed to get previous price: %w", opn, err)
	}

	return price, nil
}

// ExportCSV writes the full price history in the collaborator-facing
// CSV shape: date, product_id, price, currency, availability.
func (r *Repository) ExportCSV(ctx context.Context, w io.Writer) error {
	const opn = "repository.sqlite.ExportCSV"

	rows, err := r.db.QueryContext(ctx,
		`SELECT recorded_at, product_id, price, currency, availability FROM prices ORDER BY recorded_at`,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to query prices: %w", opn, err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "product_id", "price", "currency", "availability"}); err != nil {
		return fmt.Errorf("%s: failed to write header: %w", opn, err)
	}

	for rows.Next() {
		var (
			recordedAt   time.Time
			productID    string
			price        float64
			currency     sql.NullString
			availability sql.NullString
		)
		if err := rows.Scan(&recordedAt, &productID, &price, &currency, &availability); err != nil {
			return fmt.Errorf("%s: failed to scan price row: %w", opn, err)
		}
		record := []string{
			recordedAt.Format("2006-01-02 15:04:05"),
			productID,
			strconv.FormatFloat(price, 'f', -1, 64),
			currency.String,
			availability.String,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%s: failed to write price row: %w", opn, err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	cw.Flush()
	return cw.Error()
}
