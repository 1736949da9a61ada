package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// DatasetRepository provides data access methods for the dataset and metric_record tables.
type DatasetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewDatasetRepository creates a new DatasetRepository with the provided database connection.
func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// WithTx returns a new DatasetRepository scoped to the provided transaction.
func (r *DatasetRepository) WithTx(tx *sql.Tx) *DatasetRepository {
	return &DatasetRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *DatasetRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ReplaceCurrentDataset stores ds as the current dataset and removes every older dataset.
// All writes happen in a single transaction; on failure the previous dataset stays current.
func (r *DatasetRepository) ReplaceCurrentDataset(ctx context.Context, ds *model.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	txRepo := r.WithTx(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset`); err != nil {
		return fmt.Errorf("failed to clear datasets: %w", err)
	}

	if err := txRepo.insertDataset(ctx, ds); err != nil {
		return err
	}

	if err := txRepo.insertRecords(ctx, ds.Version, ds.Records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}

func (r *DatasetRepository) insertDataset(ctx context.Context, ds *model.Dataset) error {
	query := `
		INSERT INTO dataset (id, seed, months, generated_at, is_current)
		VALUES (?, ?, ?, ?, TRUE)
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		ds.Version,
		int64(ds.Seed), //nolint:gosec // seeds are small configured values
		ds.Months,
		ds.GeneratedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	return nil
}

func (r *DatasetRepository) insertRecords(ctx context.Context, datasetID string, records []model.MetricRecord) error {
	stmt, err := r.getQuerier().PrepareContext(ctx, `
		INSERT INTO metric_record (
			id, dataset_id, date, agency, portfolio_manager,
			landlords, properties, leases, vacancies, occupancy_rate,
			management_fees, leasing_fees, other_fees, total_revenue, rent_roll,
			total_arrears, arrears_0_30, arrears_31_60, arrears_61_90, arrears_90_plus,
			avg_fee_per_tenancy, rent_reviews_upcoming, lease_expiries_upcoming,
			overdue_diary_items, completed_diary_items
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metric_record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			datasetID,
			rec.Date.Format("2006-01-02"),
			rec.Agency,
			rec.PortfolioManager,
			rec.Landlords,
			rec.Properties,
			rec.Leases,
			rec.Vacancies,
			rec.OccupancyRate,
			rec.ManagementFees,
			rec.LeasingFees,
			rec.OtherFees,
			rec.TotalRevenue,
			rec.RentRoll,
			rec.TotalArrears,
			rec.Arrears0To30,
			rec.Arrears31To60,
			rec.Arrears61To90,
			rec.Arrears90Plus,
			rec.AvgFeePerTenancy,
			rec.RentReviewsUpcoming,
			rec.LeaseExpiriesUpcoming,
			rec.OverdueDiaryItems,
			rec.CompletedDiaryItems,
		)
		if err != nil {
			return fmt.Errorf("failed to insert metric_record for %s on %s: %w",
				rec.PortfolioManager, rec.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}

// GetCurrentDataset loads the current dataset with all of its records.
// Returns ErrDatasetNotLoaded when nothing has been stored yet.
func (r *DatasetRepository) GetCurrentDataset(ctx context.Context) (*model.Dataset, error) {
	query := `
		SELECT id, seed, months, generated_at
		FROM dataset
		WHERE is_current = TRUE
	`

	var ds model.Dataset
	var seed int64
	var generatedAtStr string
	err := r.getQuerier().QueryRowContext(ctx, query).Scan(&ds.Version, &seed, &ds.Months, &generatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	ds.Seed = uint64(seed) //nolint:gosec // stored from a uint64 seed

	ds.GeneratedAt, err = ParseTime(generatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated_at: %w", err)
	}

	ds.Records = make([]model.MetricRecord, 0)
	err = r.StreamRecords(ctx, ds.Version, func(rec model.MetricRecord) error {
		ds.Records = append(ds.Records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ds, nil
}

// StreamRecords retrieves the metric records of a dataset ordered by date and portfolio manager.
// This method streams results using a callback pattern to minimize memory usage.
//
// Returns an error if the query fails or if the callback returns an error during processing.
func (r *DatasetRepository) StreamRecords(
	ctx context.Context,
	datasetID string,
	callback func(record model.MetricRecord) error,
) error {
	query := `
		SELECT date, agency, portfolio_manager,
		       landlords, properties, leases, vacancies, occupancy_rate,
		       management_fees, leasing_fees, other_fees, total_revenue, rent_roll,
		       total_arrears, arrears_0_30, arrears_31_60, arrears_61_90, arrears_90_plus,
		       avg_fee_per_tenancy, rent_reviews_upcoming, lease_expiries_upcoming,
		       overdue_diary_items, completed_diary_items
		FROM metric_record
		WHERE dataset_id = ?
		ORDER BY date ASC, portfolio_manager ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, datasetID)
	if err != nil {
		return fmt.Errorf("failed to query metric_record: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec model.MetricRecord
		var dateStr string

		err := rows.Scan(
			&dateStr,
			&rec.Agency,
			&rec.PortfolioManager,
			&rec.Landlords,
			&rec.Properties,
			&rec.Leases,
			&rec.Vacancies,
			&rec.OccupancyRate,
			&rec.ManagementFees,
			&rec.LeasingFees,
			&rec.OtherFees,
			&rec.TotalRevenue,
			&rec.RentRoll,
			&rec.TotalArrears,
			&rec.Arrears0To30,
			&rec.Arrears31To60,
			&rec.Arrears61To90,
			&rec.Arrears90Plus,
			&rec.AvgFeePerTenancy,
			&rec.RentReviewsUpcoming,
			&rec.LeaseExpiriesUpcoming,
			&rec.OverdueDiaryItems,
			&rec.CompletedDiaryItems,
		)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		rec.Date, err = ParseTime(dateStr)
		if err != nil {
			return fmt.Errorf("failed to parse date: %w", err)
		}

		if err := callback(rec); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

// GetDateRange returns the earliest and latest record dates of a dataset.
// Returns ErrEmptyDataset when the dataset has no records.
func (r *DatasetRepository) GetDateRange(ctx context.Context, datasetID string) (time.Time, time.Time, error) {
	query := `
		SELECT MIN(date), MAX(date)
		FROM metric_record
		WHERE dataset_id = ?
	`

	var minStr, maxStr sql.NullString
	if err := r.getQuerier().QueryRowContext(ctx, query, datasetID).Scan(&minStr, &maxStr); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to query date range: %w", err)
	}
	if !minStr.Valid || !maxStr.Valid {
		return time.Time{}, time.Time{}, apperrors.ErrEmptyDataset
	}

	minDate, err := ParseTime(minStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse min date: %w", err)
	}
	maxDate, err := ParseTime(maxStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse max date: %w", err)
	}
	return minDate, maxDate, nil
}
