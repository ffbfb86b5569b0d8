// Package ledger is the paper trading position book backed by the
// trading_positions table. The read API is its only caller.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nemflow/nemflow/internal/model"
)

// ErrPositionNotFound covers both a missing id and a second close of an
// already-closed position; closing is not idempotent by design.
var ErrPositionNotFound = errors.New("position not found or already closed")

// ErrInvalidPosition rejects malformed open requests before they hit the
// database.
var ErrInvalidPosition = errors.New("invalid position")

const listLimit = 100

// Ledger persists positions.
type Ledger struct {
	db      *sqlx.DB
	timeout time.Duration
}

// New wraps an open pool.
func New(db *sqlx.DB) *Ledger {
	return &Ledger{db: db, timeout: 10 * time.Second}
}

// Open inserts a new OPEN position with a generated id and the current
// instant as entry time.
func (l *Ledger) Open(ctx context.Context, userID, region, side string, quantity, entryPrice float64) (model.Position, error) {
	if userID == "" || !model.IsRegion(region) {
		return model.Position{}, fmt.Errorf("%w: unknown region %q", ErrInvalidPosition, region)
	}
	if side != model.SideLong && side != model.SideShort {
		return model.Position{}, fmt.Errorf("%w: side must be LONG or SHORT", ErrInvalidPosition)
	}
	if quantity <= 0 {
		return model.Position{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidPosition)
	}

	pos := model.Position{
		ID:         uuid.New().String(),
		UserID:     userID,
		Region:     region,
		Side:       side,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		EntryTime:  time.Now().UTC(),
		Status:     model.PositionOpen,
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	query := `
		INSERT INTO trading_positions
			(id, user_id, region, side, quantity, entry_price, entry_time, status)
		VALUES (:id, :user_id, :region, :side, :quantity, :entry_price, :entry_time, :status)`
	if _, err := l.db.NamedExecContext(ctx, query, pos); err != nil {
		return model.Position{}, fmt.Errorf("failed to insert position: %w", err)
	}
	return pos, nil
}

// Close transitions a position OPEN -> CLOSED in a single guarded update,
// computing realised P&L: (exit - entry) x qty for long, (entry - exit) x qty
// for short. A repeat close or a foreign user's id returns
// ErrPositionNotFound.
func (l *Ledger) Close(ctx context.Context, userID, id string, exitPrice float64) (model.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	query := `
		UPDATE trading_positions SET
			exit_price = $1,
			exit_time = $2,
			status = $3,
			pnl = CASE WHEN side = $4
				THEN ($1 - entry_price) * quantity
				ELSE (entry_price - $1) * quantity END
		WHERE id = $5 AND user_id = $6 AND status = $7
		RETURNING id, user_id, region, side, quantity, entry_price, entry_time,
			exit_price, exit_time, pnl, status`
	var pos model.Position
	err := l.db.GetContext(ctx, &pos, query,
		exitPrice, time.Now().UTC(), model.PositionClosed, model.SideLong,
		id, userID, model.PositionOpen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Position{}, ErrPositionNotFound
		}
		return model.Position{}, fmt.Errorf("failed to close position: %w", err)
	}
	return pos, nil
}

// List returns the user's positions, newest entry first, capped at 100.
func (l *Ledger) List(ctx context.Context, userID string) ([]model.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	query := `
		SELECT id, user_id, region, side, quantity, entry_price, entry_time,
			exit_price, exit_time, pnl, status
		FROM trading_positions
		WHERE user_id = $1
		ORDER BY entry_time DESC
		LIMIT $2`
	var out []model.Position
	if err := l.db.SelectContext(ctx, &out, query, userID, listLimit); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return out, nil
}
