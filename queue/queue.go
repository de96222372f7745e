package queue

import (
	"context"
	"errors"
)

// ErrQueueUnavailable wraps any transport or durability failure while
// appending a command. The enqueue either durably appended or failed with
// this error; a command is never silently dropped. Callers retry the whole
// workflow, which is safe because every command is idempotent or additive.
var ErrQueueUnavailable = errors.New("write queue unavailable")

// Queue is a durable, ordered, append-only list of write commands. A single
// external writer drains it in FIFO order and applies the statements to the
// persistent store; producers get no acknowledgement of application, only of
// the append itself. Commands enqueued in sequence by one caller are applied
// in that relative order; nothing is guaranteed across callers beyond
// eventual application.
type Queue interface {
	Enqueue(ctx context.Context, cmd Command) error
	EnqueueAll(ctx context.Context, cmds ...Command) error
}
