package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

// settings_constants holds a single row
const constantsRowID = 1

func (s *Storage) GetConstants(ctx context.Context) (costing.Constants, error) {
	const op = "storage.mysql.GetConstants"

	query := `SELECT warp_divider, weft_divider, minutes_per_day, default_d_value
		FROM settings_constants WHERE id = ?`

	var c costing.Constants
	err := s.db.QueryRowContext(ctx, query, constantsRowID).Scan(
		&c.WarpDivider, &c.WeftDivider, &c.MinutesPerDay, &c.DefaultDValue,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return costing.Constants{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return costing.Constants{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Storage) UpdateConstants(ctx context.Context, c costing.Constants) error {
	const op = "storage.mysql.UpdateConstants"

	stmt := `INSERT INTO settings_constants (id, warp_divider, weft_divider, minutes_per_day, default_d_value, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			warp_divider = VALUES(warp_divider),
			weft_divider = VALUES(weft_divider),
			minutes_per_day = VALUES(minutes_per_day),
			default_d_value = VALUES(default_d_value),
			updated_at = VALUES(updated_at)`

	_, err := s.db.ExecContext(ctx, stmt, constantsRowID,
		c.WarpDivider, c.WeftDivider, c.MinutesPerDay, c.DefaultDValue, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
