package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

const constantsRowID = 1

func (s *Storage) GetConstants(ctx context.Context) (costing.Constants, error) {
	const op = "storage.sqlite.GetConstants"

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
	const op = "storage.sqlite.UpdateConstants"

	stmt := `INSERT INTO settings_constants (id, warp_divider, weft_divider, minutes_per_day, default_d_value, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			warp_divider = excluded.warp_divider,
			weft_divider = excluded.weft_divider,
			minutes_per_day = excluded.minutes_per_day,
			default_d_value = excluded.default_d_value,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, stmt, constantsRowID,
		c.WarpDivider, c.WeftDivider, c.MinutesPerDay, c.DefaultDValue, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
