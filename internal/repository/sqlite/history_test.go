package sqlite

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/internal/repository"
	"pricetracker/internal/scraper"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func successResult(price float64) scraper.ExtractionResult {
	return scraper.ExtractionResult{
		PriceText:    "129,99 €",
		NumericPrice: &price,
		Currency:     "€",
		Title:        "Echo Dot",
		Availability: "En stock",
		URL:          "https://www.amazon.fr/dp/B0TEST",
		Site:         "amazon",
		Status:       scraper.StatusSuccess,
		Source:       scraper.SourceLive,
	}
}

func TestSavePrice(t *testing.T) {
	repo, mock := newMockRepo(t)

	target := scraper.ProductTarget{
		ID:   "echo-dot",
		Name: "Echo Dot",
		URL:  "https://www.amazon.fr/dp/B0TEST",
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO prices")).
		WithArgs(sqlmock.AnyArg(), "echo-dot", 129.99, "€", "En stock").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("echo-dot", "Echo Dot", target.URL, sqlmock.AnyArg(), 129.99, "€", "En stock", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SavePrice(context.Background(), target, successResult(129.99))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePriceSkipsErrorResult(t *testing.T) {
	repo, mock := newMockRepo(t)

	result := scraper.ExtractionResult{
		Status: scraper.StatusError,
		Source: scraper.SourceError,
	}

	// No statements run for an error-status result
	err := repo.SavePrice(context.Background(), scraper.ProductTarget{ID: "x"}, result)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePriceUsesResultTitleWhenTargetUnnamed(t *testing.T) {
	repo, mock := newMockRepo(t)

	target := scraper.ProductTarget{
		ID:  "echo-dot",
		URL: "https://www.amazon.fr/dp/B0TEST",
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO prices")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("echo-dot", "Echo Dot", target.URL, sqlmock.AnyArg(), 129.99, "€", "En stock", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SavePrice(context.Background(), target, successResult(129.99))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviousPrice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM prices")).
		WithArgs("echo-dot").
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(129.99))

	price, err := repo.PreviousPrice(context.Background(), "echo-dot")
	require.NoError(t, err)
	assert.Equal(t, 129.99, price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviousPriceNoHistory(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM prices")).
		WithArgs("never-seen").
		WillReturnRows(sqlmock.NewRows([]string{"price"}))

	_, err := repo.PreviousPrice(context.Background(), "never-seen")
	assert.ErrorIs(t, err, repository.ErrNoHistory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportCSV(t *testing.T) {
	repo, mock := newMockRepo(t)

	recordedAt, err := time.Parse("2006-01-02 15:04:05", "2026-08-30 10:15:00")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"recorded_at", "product_id", "price", "currency", "availability"}).
		AddRow(recordedAt, "echo-dot", 129.99, "€", "En stock").
		AddRow(recordedAt.Add(time.Hour), "widget", 12.5, "€", "")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT recorded_at, product_id, price, currency, availability FROM prices")).
		WillReturnRows(rows)

	var buf bytes.Buffer
	require.NoError(t, repo.ExportCSV(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,product_id,price,currency,availability", lines[0])
	assert.Equal(t, "2026-08-30 10:15:00,echo-dot,129.99,€,En stock", lines[1])
	assert.Equal(t, "2026-08-30 11:15:00,widget,12.5,€,", lines[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}
