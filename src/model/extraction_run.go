package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/gainscan/backend/src/models"
)

var ErrExtractionRunNotFound = errors.New("extraction run not found")

// ExtractionRun is one stored pipeline invocation: the uploaded document's
// name, the digest of its text, and the full result that was returned to the
// caller. Failed runs are stored too, so repeat uploads of a broken document
// can be answered from the database.
type ExtractionRun struct {
	ID         string                  `json:"id"`
	SourceName string                  `json:"sourceName"`
	TextSHA256 string                  `json:"textSha256"`
	CreatedAt  time.Time               `json:"createdAt"`
	Result     models.ExtractionResult `json:"result"`
}

// ExtractionRunSummary is the listing row: enough to render a history table
// without loading every transaction.
type ExtractionRunSummary struct {
	ID               string           `json:"id"`
	SourceName       string           `json:"sourceName"`
	Brokerage        models.Brokerage `json:"brokerage"`
	Success          bool             `json:"success"`
	TransactionCount int              `json:"transactionCount"`
	TotalNetGainLoss float64          `json:"totalNetGainLoss"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// CreateExtractionRun inserts the run and all of its transactions in one
// database transaction.
func CreateExtractionRun(db *sql.DB, run *ExtractionRun) error {
	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	run.CreatedAt = time.Now()

	insertRun := `
	INSERT INTO extraction_runs (
		id, source_name, text_sha256, brokerage, success,
		account_number, taxpayer_name, document_id, error,
		total_proceeds, total_cost_basis, total_net_gain_loss, total_wash_sale_loss,
		short_term_proceeds, short_term_cost_basis, short_term_net_gain_loss,
		long_term_proceeds, long_term_cost_basis, long_term_net_gain_loss,
		created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	r := run.Result
	_, err = dbTx.Exec(insertRun,
		run.ID, run.SourceName, run.TextSHA256, string(r.Brokerage), r.Success,
		r.AccountNumber, r.TaxpayerName, r.DocumentID, r.Error,
		r.TotalProceeds, r.TotalCostBasis, r.TotalNetGainLoss, r.TotalWashSaleLoss,
		r.ShortTermProceeds, r.ShortTermCostBasis, r.ShortTermNetGainLoss,
		r.LongTermProceeds, r.LongTermCostBasis, r.LongTermNetGainLoss,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting extraction run %s: %w", run.ID, err)
	}

	stmt, err := dbTx.Prepare(`
	INSERT INTO extracted_transactions (
		run_id, cusip, description, date_acquired, date_sold,
		quantity, proceeds, cost_basis, wash_sale_loss, net_gain_loss,
		is_long_term, form_type
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing transaction insert statement: %w", err)
	}
	defer stmt.Close()

	for _, tx := range run.Result.Transactions {
		_, err = stmt.Exec(
			run.ID, tx.CUSIP, tx.Description, tx.DateAcquired, tx.DateSold,
			tx.Quantity, tx.Proceeds, tx.CostBasis, tx.WashSaleLoss, tx.NetGainLoss,
			tx.IsLongTerm, tx.FormType,
		)
		if err != nil {
			return fmt.Errorf("error inserting transaction for run %s: %w", run.ID, err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing extraction run %s: %w", run.ID, err)
	}
	return nil
}

// GetExtractionRunByID loads a stored run together with its transactions.
func GetExtractionRunByID(db *sql.DB, id string) (*ExtractionRun, error) {
	query := `
	SELECT id, source_name, text_sha256, brokerage, success,
	       account_number, taxpayer_name, document_id, error,
	       total_proceeds, total_cost_basis, total_net_gain_loss, total_wash_sale_loss,
	       short_term_proceeds, short_term_cost_basis, short_term_net_gain_loss,
	       long_term_proceeds, long_term_cost_basis, long_term_net_gain_loss,
	       created_at
	FROM extraction_runs
	WHERE id = ?`

	row := db.QueryRow(query, id)
	run, err := scanExtractionRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExtractionRunNotFound
		}
		return nil, err
	}

	if err := loadRunTransactions(db, run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetExtractionRunByTextSHA256 finds the most recent run for a document
// digest. Used to answer repeat uploads without re-running the pipeline.
func GetExtractionRunByTextSHA256(db *sql.DB, sha string) (*ExtractionRun, error) {
	query := `
	SELECT id, source_name, text_sha256, brokerage, success,
	       account_number, taxpayer_name, document_id, error,
	       total_proceeds, total_cost_basis, total_net_gain_loss, total_wash_sale_loss,
	       short_term_proceeds, short_term_cost_basis, short_term_net_gain_loss,
	       long_term_proceeds, long_term_cost_basis, long_term_net_gain_loss,
	       created_at
	FROM extraction_runs
	WHERE text_sha256 = ?
	ORDER BY created_at DESC
	LIMIT 1`

	row := db.QueryRow(query, sha)
	run, err := scanExtractionRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExtractionRunNotFound
		}
		return nil, err
	}

	if err := loadRunTransactions(db, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListExtractionRuns returns run summaries, newest first.
func ListExtractionRuns(db *sql.DB, limit int) ([]ExtractionRunSummary, error) {
	query := `
	SELECT r.id, r.source_name, r.brokerage, r.success, r.total_net_gain_loss, r.created_at,
	       (SELECT COUNT(*) FROM extracted_transactions t WHERE t.run_id = r.id) AS transaction_count
	FROM extraction_runs r
	ORDER BY r.created_at DESC
	LIMIT ?`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying extraction runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]ExtractionRunSummary, 0)
	for rows.Next() {
		var s ExtractionRunSummary
		var brokerage string
		if err := rows.Scan(&s.ID, &s.SourceName, &brokerage, &s.Success, &s.TotalNetGainLoss, &s.CreatedAt, &s.TransactionCount); err != nil {
			return nil, fmt.Errorf("error scanning extraction run summary: %w", err)
		}
		s.Brokerage = models.Brokerage(brokerage)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over extraction run summaries: %w", err)
	}
	return summaries, nil
}

// DeleteExtractionRun removes a run; its transactions go with it through the
// ON DELETE CASCADE on extracted_transactions.
func DeleteExtractionRun(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM extraction_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting extraction run %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrExtractionRunNotFound
	}
	return nil
}

func scanExtractionRun(row *sql.Row) (*ExtractionRun, error) {
	var run ExtractionRun
	var brokerage string
	var accountNumber, taxpayerName, documentID, errMsg sql.NullString

	err := row.Scan(
		&run.ID, &run.SourceName, &run.TextSHA256, &brokerage, &run.Result.Success,
		&accountNumber, &taxpayerName, &documentID, &errMsg,
		&run.Result.TotalProceeds, &run.Result.TotalCostBasis, &run.Result.TotalNetGainLoss, &run.Result.TotalWashSaleLoss,
		&run.Result.ShortTermProceeds, &run.Result.ShortTermCostBasis, &run.Result.ShortTermNetGainLoss,
		&run.Result.LongTermProceeds, &run.Result.LongTermCostBasis, &run.Result.LongTermNetGainLoss,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Result.Brokerage = models.Brokerage(brokerage)
	run.Result.AccountNumber = accountNumber.String
	run.Result.TaxpayerName = taxpayerName.String
	run.Result.DocumentID = documentID.String
	run.Result.Error = errMsg.String
	run.Result.Transactions = []models.Transaction{}
	return &run, nil
}

func loadRunTransactions(db *sql.DB, run *ExtractionRun) error {
	query := `
	SELECT cusip, description, date_acquired, date_sold,
	       quantity, proceeds, cost_basis, wash_sale_loss, net_gain_loss,
	       is_long_term, form_type
	FROM extracted_transactions
	WHERE run_id = ?
	ORDER BY id`

	rows, err := db.Query(query, run.ID)
	if err != nil {
		return fmt.Errorf("error querying transactions for run %s: %w", run.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.CUSIP, &tx.Description, &tx.DateAcquired, &tx.DateSold,
			&tx.Quantity, &tx.Proceeds, &tx.CostBasis, &tx.WashSaleLoss, &tx.NetGainLoss,
			&tx.IsLongTerm, &tx.FormType,
		); err != nil {
			return fmt.Errorf("error scanning transaction row for run %s: %w", run.ID, err)
		}
		run.Result.Transactions = append(run.Result.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over transaction rows for run %s: %w", run.ID, err)
	}
	return nil
}
