package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository stores and reads notification records. Creation only ever
// happens inside an appointment transaction, so InsertTx takes the caller's
// open pgx.Tx instead of beginning its own.
type Repository interface {
	InsertTx(ctx context.Context, tx pgx.Tx, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Item, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) (*Item, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertTx(ctx context.Context, tx pgx.Tx, n *Notification) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO notifications (id, recipient_id, actor_id, verb, target, appointment_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, now())
		RETURNING created_at
	`, n.ID, n.RecipientID, n.ActorID, n.Verb, n.Target, n.AppointmentID).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

const itemColumns = `
	n.id, n.recipient_id, n.actor_id, n.verb, n.target, n.appointment_id,
	n.is_read, n.created_at,
	COALESCE(a.firstname || ' ' || a.lastname, '')
`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID,
		&it.RecipientID,
		&it.ActorID,
		&it.Verb,
		&it.Target,
		&it.AppointmentID,
		&it.IsRead,
		&it.CreatedAt,
		&it.ActorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ListByRecipient returns the recipient's newest notifications first.
func (r *PgRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM notifications n
		LEFT JOIN users a ON a.id = n.actor_id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2
	`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// MarkRead flags one notification read. The recipient filter doubles as the
// authorization check: another user's notification reads as not found.
func (r *PgRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE notifications
			SET is_read = true
			WHERE id = $1 AND recipient_id = $2
			RETURNING *
		)
		SELECT `+itemColumns+`
		FROM updated n
		LEFT JOIN users a ON a.id = n.actor_id
	`, id, recipientID)
	return scanItem(row)
}

func (r *PgRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET is_read = true
		WHERE recipient_id = $1 AND is_read = false
	`, recipientID)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
