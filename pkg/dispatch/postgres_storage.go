package dispatch

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/pg"
)

// PostgresStorage implements Storage over a pgx connection pool.
//
// Every method is a single statement and its own commit; the engine's
// ordering guarantee (event row before any delivery row) comes from call
// sequencing, not from transactions. The idempotency invariant is enforced
// by the unique index on notification_events.idempotency_key.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a storage backed by the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) InsertEvent(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notification_events (id, user_id, event_key, payload, idempotency_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.UserID, event.EventKey, event.Payload, event.IdempotencyKey, event.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateIdempotencyKey, err)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *PostgresStorage) FindEventByIdempotencyKey(ctx context.Context, key string) (*Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, event_key, payload, idempotency_key, created_at
		 FROM notification_events
		 WHERE idempotency_key = $1`,
		key,
	)

	var event Event
	err := row.Scan(&event.ID, &event.UserID, &event.EventKey, &event.Payload, &event.IdempotencyKey, &event.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("find event by idempotency key: %w", err)
	}
	return &event, nil
}

func (s *PostgresStorage) ListTemplates(ctx context.Context, eventKey string) ([]Template, error) {
	// template_key and subject/body are the pre-migration column names;
	// both naming schemes are live during the migration period.
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(NULLIF(event_key, ''), template_key) AS event_key, channel,
		        COALESCE(NULLIF(title_template, ''), subject, '') AS title_template,
		        COALESCE(NULLIF(body_template, ''), body, '') AS body_template
		 FROM notification_templates
		 WHERE event_key = $1 OR template_key = $1`,
		eventKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tpl Template
		var channel string
		if err := rows.Scan(&tpl.ID, &tpl.EventKey, &channel, &tpl.TitleTemplate, &tpl.BodyTemplate); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if ch, ok := ParseChannel(channel); ok {
			tpl.Channel = ch
			templates = append(templates, tpl)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *PostgresStorage) ListPreferences(ctx context.Context, userID string) ([]PreferenceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, channel, enabled, email_opt_in, wa_opt_in, channels
		 FROM notifications_opt_in
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var records []PreferenceRecord
	for rows.Next() {
		var rec PreferenceRecord
		if err := rows.Scan(&rec.UserID, &rec.Channel, &rec.Enabled, &rec.EmailOptIn, &rec.WhatsAppOptIn, &rec.Channels); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return records, nil
}

func (s *PostgresStorage) InsertNotification(ctx context.Context, notif Notification) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, title, body, url, event_key, channel, read, read_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		notif.ID, notif.UserID, notif.Title, notif.Body, notif.URL, notif.EventKey,
		string(notif.Channel), notif.Read, notif.ReadAt, notif.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStorage) InsertDelivery(ctx context.Context, delivery Delivery) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notification_deliveries
		 (id, event_id, template_id, channel, status, attempt_count, metadata, notification_id, created_at, sent_at, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		delivery.ID, delivery.EventID, delivery.TemplateID, string(delivery.Channel), string(delivery.Status),
		delivery.AttemptCount, delivery.Metadata, delivery.NotificationID, delivery.CreatedAt, delivery.SentAt, delivery.Error,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}
