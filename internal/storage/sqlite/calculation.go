package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fabric-cost/internal/storage"
)

const calculationColumns = `id, customer_name, loom, materials, constants,
	use_direct_warp, direct_warp_weight, use_direct_weft, direct_weft_weight,
	warp_weight, weft_weight, warp_cost, weft_cost, warping_cost, labor_cost, total_cost, daily_product,
	results, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(sc scanner) (*storage.Calculation, error) {
	var (
		r                    storage.CalculationRow
		createdAt, updatedAt int64
	)

	err := sc.Scan(
		&r.ID, &r.CustomerName, &r.LoomJSON, &r.MaterialsJSON, &r.ConstantsJSON,
		&r.UseDirectWarp, &r.DirectWarpWeight, &r.UseDirectWeft, &r.DirectWeftWeight,
		&r.WarpWeight, &r.WeftWeight, &r.WarpCost, &r.WeftCost, &r.WarpingCost, &r.LaborCost, &r.TotalCost, &r.DailyProduct,
		&r.ResultsJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)

	return r.Calculation()
}

func (s *Storage) SaveCalculation(ctx context.Context, c *storage.Calculation) error {
	const op = "storage.sqlite.SaveCalculation"

	row, err := c.Row()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `INSERT INTO calculations (` + calculationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, stmt,
		row.ID, row.CustomerName, row.LoomJSON, row.MaterialsJSON, row.ConstantsJSON,
		row.UseDirectWarp, row.DirectWarpWeight, row.UseDirectWeft, row.DirectWeftWeight,
		row.WarpWeight, row.WeftWeight, row.WarpCost, row.WeftCost, row.WarpingCost, row.LaborCost, row.TotalCost, row.DailyProduct,
		row.ResultsJSON, toMillis(row.CreatedAt), toMillis(row.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("%s: insert calculation id=%s: %w", op, c.ID, err)
	}

	return nil
}

func (s *Storage) GetCalculation(ctx context.Context, id string) (*storage.Calculation, error) {
	const op = "storage.sqlite.GetCalculation"

	query := `SELECT ` + calculationColumns + ` FROM calculations WHERE id = ?`

	c, err := scanCalculation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: id=%s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// ListCalculations returns records newest first. Customer matching is left to the caller.
func (s *Storage) ListCalculations(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error) {
	const op = "storage.sqlite.ListCalculations"

	var (
		where []string
		args  []any
	)
	if !filter.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, toMillis(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, toMillis(filter.To))
	}

	query := `SELECT ` + calculationColumns + ` FROM calculations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.query(ctx, op, query, args...)
}

func (s *Storage) query(ctx context.Context, op, query string, args ...any) ([]*storage.Calculation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var calculations []*storage.Calculation

	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		calculations = append(calculations, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}

	return calculations, nil
}

// UpdateCalculation overwrites the record and queues it for the next sync.
func (s *Storage) UpdateCalculation(ctx context.Context, c *storage.Calculation) error {
	const op = "storage.sqlite.UpdateCalculation"

	row, err := c.Row()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `UPDATE calculations SET
			customer_name = ?, loom = ?, materials = ?, constants = ?,
			use_direct_warp = ?, direct_warp_weight = ?, use_direct_weft = ?, direct_weft_weight = ?,
			warp_weight = ?, weft_weight = ?, warp_cost = ?, weft_cost = ?,
			warping_cost = ?, labor_cost = ?, total_cost = ?, daily_product = ?,
			results = ?, updated_at = ?, synced_at = NULL
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt,
		row.CustomerName, row.LoomJSON, row.MaterialsJSON, row.ConstantsJSON,
		row.UseDirectWarp, row.DirectWarpWeight, row.UseDirectWeft, row.DirectWeftWeight,
		row.WarpWeight, row.WeftWeight, row.WarpCost, row.WeftCost,
		row.WarpingCost, row.LaborCost, row.TotalCost, row.DailyProduct,
		row.ResultsJSON, toMillis(row.UpdatedAt),
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: update calculation id=%s: %w", op, c.ID, err)
	}

	return checkAffected(op, c.ID, res)
}

func (s *Storage) DeleteCalculation(ctx context.Context, id string) error {
	const op = "storage.sqlite.DeleteCalculation"

	res, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: delete calculation id=%s: %w", op, id, err)
	}

	return checkAffected(op, id, res)
}

// ListUnsynced returns records never pushed to the remote store or changed
// since, oldest change first.
func (s *Storage) ListUnsynced(ctx context.Context, limit int) ([]*storage.Calculation, error) {
	const op = "storage.sqlite.ListUnsynced"

	query := `SELECT ` + calculationColumns + ` FROM calculations
		WHERE synced_at IS NULL
		ORDER BY updated_at, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.query(ctx, op, query, args...)
}

// MarkSynced stamps the given records as pushed at the given time. Records
// modified after that moment stay queued.
func (s *Storage) MarkSynced(ctx context.Context, ids []string, at time.Time) error {
	const op = "storage.sqlite.MarkSynced"

	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE calculations SET synced_at = ? WHERE id = ? AND updated_at <= ?`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	ms := toMillis(at)
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, ms, id, ms); err != nil {
			return fmt.Errorf("%s: mark id=%s: %w", op, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func checkAffected(op, id string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: id=%s: %w", op, id, storage.ErrNotFound)
	}
	return nil
}
