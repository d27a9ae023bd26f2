// Package db wires the PostgreSQL connection, repository construction and
// schema migrations into a single manager consumed by the server app.
package db

import (
	"database/sql"

	"github.com/myumkm/myumkm/internal/server/conversations"
	"github.com/myumkm/myumkm/internal/server/messages"
	"github.com/myumkm/myumkm/internal/server/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Conversations() conversations.Repository
	Messages() messages.Repository
	Close() error
}
