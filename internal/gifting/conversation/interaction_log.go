package conversation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"gifting-workers/internal/models"
)

const interactionSchemaSQL = `
CREATE TABLE IF NOT EXISTS conversation_interactions (
    id              UUID PRIMARY KEY,
    conversation_id TEXT        NOT NULL,
    category_name   TEXT        NOT NULL,
    action          TEXT        NOT NULL,
    product_ids     TEXT[]      NOT NULL DEFAULT '{}',
    occurred_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversation_interactions_conversation
    ON conversation_interactions (conversation_id, occurred_at);`

const insertInteractionSQL = `
INSERT INTO conversation_interactions (id, conversation_id, category_name, action, product_ids, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`

const actionCountsSQL = `
SELECT category_name, COUNT(*)
FROM conversation_interactions
WHERE conversation_id = $1 AND action = $2
GROUP BY category_name
ORDER BY COUNT(*) DESC, category_name`

// InteractionLog is an append-only record of every tracked interaction.
type InteractionLog interface {
	Record(ctx context.Context, conversationID string, interaction models.CategoryInteraction) error
}

// PostgresInteractionLog writes interactions to conversation_interactions.
type PostgresInteractionLog struct {
	db *sql.DB
}

func NewPostgresInteractionLog(db *sql.DB) *PostgresInteractionLog {
	return &PostgresInteractionLog{db: db}
}

// EnsureSchema creates the table and index when missing.
func (l *PostgresInteractionLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, interactionSchemaSQL); err != nil {
		return fmt.Errorf("create conversation_interactions: %w", err)
	}
	return nil
}

func (l *PostgresInteractionLog) Record(ctx context.Context, conversationID string, interaction models.CategoryInteraction) error {
	ids := make([]string, 0, len(interaction.Products))
	for _, p := range interaction.Products {
		ids = append(ids, p.ID)
	}

	_, err := l.db.ExecContext(ctx, insertInteractionSQL,
		interaction.ID,
		conversationID,
		interaction.CategoryName,
		string(interaction.Action),
		pq.Array(ids),
		interaction.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// ActionCounts returns how often each category received action in a conversation.
func (l *PostgresInteractionLog) ActionCounts(ctx context.Context, conversationID string, action models.InteractionAction) (map[string]int, error) {
	rows, err := l.db.QueryContext(ctx, actionCountsSQL, conversationID, string(action))
	if err != nil {
		return nil, fmt.Errorf("query interaction counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan interaction count: %w", err)
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// NoopInteractionLog discards interactions.
type NoopInteractionLog struct{}

func (NoopInteractionLog) Record(context.Context, string, models.CategoryInteraction) error { return nil }
