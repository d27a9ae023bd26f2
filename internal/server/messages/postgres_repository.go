package messages

import (
	"context"
	"fmt"

	"github.com/myumkm/myumkm/internal/dbx"
	"github.com/myumkm/myumkm/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the message and bumps the conversation's updated_at to
// the message's creation time in a single statement, so the two writes
// cannot diverge.
func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {

	query :=
		`WITH ins AS (
		     INSERT INTO messages (id, conversation_id, author_id, content)
		     VALUES ($1, $2, $3, $4)
		     RETURNING created_at
		 )
		 UPDATE conversations
		 SET updated_at = (SELECT created_at FROM ins)
		 WHERE id = $2
		 RETURNING (SELECT created_at FROM ins)
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.ID, msg.ConversationID, msg.AuthorID, msg.Content).
		Scan(&msg.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {

	query :=
		`SELECT m.id, m.conversation_id, m.author_id, m.content, m.created_at,
		        u.id, u.name, u.email, u.created_at, u.updated_at
		 FROM messages m
		 JOIN users u ON u.id = m.author_id
		 WHERE m.conversation_id = $1
		 ORDER BY m.created_at ASC, m.id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var m models.Message
		var author models.PublicUser

		err := rows.Scan(
			&m.ID, &m.ConversationID, &m.AuthorID, &m.Content, &m.CreatedAt,
			&author.ID, &author.Name, &author.Email, &author.CreatedAt, &author.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}

		m.Author = &author
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return result, nil
}
