package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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
	var r storage.CalculationRow

	// JSON колонки читаем как строки
	err := sc.Scan(
		&r.ID, &r.CustomerName, &r.LoomJSON, &r.MaterialsJSON, &r.ConstantsJSON,
		&r.UseDirectWarp, &r.DirectWarpWeight, &r.UseDirectWeft, &r.DirectWeftWeight,
		&r.WarpWeight, &r.WeftWeight, &r.WarpCost, &r.WeftCost, &r.WarpingCost, &r.LaborCost, &r.TotalCost, &r.DailyProduct,
		&r.ResultsJSON, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.Calculation()
}

func rowArgs(r storage.CalculationRow) []any {
	return []any{
		r.ID, r.CustomerName, r.LoomJSON, r.MaterialsJSON, r.ConstantsJSON,
		r.UseDirectWarp, r.DirectWarpWeight, r.UseDirectWeft, r.DirectWeftWeight,
		r.WarpWeight, r.WeftWeight, r.WarpCost, r.WeftCost, r.WarpingCost, r.LaborCost, r.TotalCost, r.DailyProduct,
		r.ResultsJSON, r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	}
}

func (s *Storage) SaveCalculation(ctx context.Context, c *storage.Calculation) error {
	const op = "storage.mysql.SaveCalculation"

	row, err := c.Row()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `INSERT INTO calculations (` + calculationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, stmt, rowArgs(row)...); err != nil {
		return fmt.Errorf("%s: insert calculation id=%s: %w", op, c.ID, err)
	}

	return nil
}

// UpsertCalculation inserts the record or replaces the stored copy with the same id.
func (s *Storage) UpsertCalculation(ctx context.Context, c *storage.Calculation) error {
	const op = "storage.mysql.UpsertCalculation"

	row, err := c.Row()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `INSERT INTO calculations (` + calculationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			customer_name = VALUES(customer_name),
			loom = VALUES(loom),
			materials = VALUES(materials),
			constants = VALUES(constants),
			use_direct_warp = VALUES(use_direct_warp),
			direct_warp_weight = VALUES(direct_warp_weight),
			use_direct_weft = VALUES(use_direct_weft),
			direct_weft_weight = VALUES(direct_weft_weight),
			warp_weight = VALUES(warp_weight),
			weft_weight = VALUES(weft_weight),
			warp_cost = VALUES(warp_cost),
			weft_cost = VALUES(weft_cost),
			warping_cost = VALUES(warping_cost),
			labor_cost = VALUES(labor_cost),
			total_cost = VALUES(total_cost),
			daily_product = VALUES(daily_product),
			results = VALUES(results),
			updated_at = VALUES(updated_at)`

	if _, err := s.db.ExecContext(ctx, stmt, rowArgs(row)...); err != nil {
		return fmt.Errorf("%s: upsert calculation id=%s: %w", op, c.ID, err)
	}

	return nil
}

func (s *Storage) GetCalculation(ctx context.Context, id string) (*storage.Calculation, error) {
	const op = "storage.mysql.GetCalculation"

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
	const op = "storage.mysql.ListCalculations"

	var (
		where []string
		args  []any
	)
	if !filter.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, filter.To.UTC())
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

func (s *Storage) UpdateCalculation(ctx context.Context, c *storage.Calculation) error {
	const op = "storage.mysql.UpdateCalculation"

	row, err := c.Row()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	stmt := `UPDATE calculations SET
			customer_name = ?, loom = ?, materials = ?, constants = ?,
			use_direct_warp = ?, direct_warp_weight = ?, use_direct_weft = ?, direct_weft_weight = ?,
			warp_weight = ?, weft_weight = ?, warp_cost = ?, weft_cost = ?,
			warping_cost = ?, labor_cost = ?, total_cost = ?, daily_product = ?,
			results = ?, updated_at = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt,
		row.CustomerName, row.LoomJSON, row.MaterialsJSON, row.ConstantsJSON,
		row.UseDirectWarp, row.DirectWarpWeight, row.UseDirectWeft, row.DirectWeftWeight,
		row.WarpWeight, row.WeftWeight, row.WarpCost, row.WeftCost,
		row.WarpingCost, row.LaborCost, row.TotalCost, row.DailyProduct,
		row.ResultsJSON, row.UpdatedAt.UTC(),
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: update calculation id=%s: %w", op, c.ID, err)
	}

	return checkAffected(op, c.ID, res)
}

func (s *Storage) DeleteCalculation(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteCalculation"

	res, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: delete calculation id=%s: %w", op, id, err)
	}

	return checkAffected(op, id, res)
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
