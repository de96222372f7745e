package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// postgresQueue appends commands to the write_queue table. The table's
// bigserial primary key is the FIFO order the external writer drains in.
type postgresQueue struct {
	db *sql.DB
}

func NewPostgresQueue(db *sql.DB) Queue {
	return &postgresQueue{db: db}
}

func (q *postgresQueue) Enqueue(ctx context.Context, cmd Command) error {
	statement, params := cmd.Statement()

	boundParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: marshal params for %s: %v", ErrQueueUnavailable, cmd.Kind(), err)
	}

	query := `
		INSERT INTO write_queue (command_id, kind, statement, params)
		VALUES ($1, $2, $3, $4)`

	if _, err := q.db.ExecContext(ctx, query, uuid.NewString(), string(cmd.Kind()), statement, boundParams); err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrQueueUnavailable, cmd.Kind(), err)
	}
	return nil
}

// EnqueueAll appends commands one by one; serial inserts from a single
// caller preserve their relative order. It stops at the first failure so a
// retry of the whole workflow re-issues a consistent sequence.
func (q *postgresQueue) EnqueueAll(ctx context.Context, cmds ...Command) error {
	for _, cmd := range cmds {
		if err := q.Enqueue(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}
