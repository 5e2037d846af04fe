// Package chat keeps the main chat history in the graph.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/syncer"
)

// ErrDropped is returned by Append when a history limited to one message
// already holds its first message, so the new message cannot be kept.
var ErrDropped = errors.New("message dropped by history limit")

// Journal appends to and reads the main chat history, trimming the oldest
// messages when the limit is reached.
type Journal struct {
	graph       *graph.Store
	maxMessages int
	now         func() time.Time
	log         *log.Entry
}

// NewJournal returns a journal keeping at most maxMessages messages. Zero
// or less keeps everything.
func NewJournal(g *graph.Store, maxMessages int) *Journal {
	return &Journal{
		graph:       g,
		maxMessages: maxMessages,
		now:         time.Now,
		log:         log.WithField("component", "chat"),
	}
}

// Append adds a message to the main history, creating the history on first
// use. When the history exceeds the limit the oldest messages are trimmed
// while keeping the first message, which serves as initial context. With a
// limit of one the history is full after its first message and Append
// returns ErrDropped without storing anything.
func (j *Journal) Append(ctx context.Context, role model.Role, content string) (model.ChatMessage, error) {
	msg, err := model.NewChatMessage(model.NewID(), role, content, j.now().UTC())
	if err != nil {
		return model.ChatMessage{}, err
	}

	err = j.graph.Update(ctx, func(tx *graph.Tx) error {
		historyID, err := j.ensureHistory(tx)
		if err != nil {
			return err
		}
		if j.maxMessages == 1 && len(tx.Children(historyID, graph.RelHistoryMessages)) > 0 {
			return ErrDropped
		}
		if _, err := syncer.MaterializeTx(tx, msg); err != nil {
			return err
		}
		if err := tx.Attach(historyID, msg.ID, graph.RelHistoryMessages, -1); err != nil {
			return err
		}
		return j.trim(tx, historyID)
	})
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("appending %s message: %w", role, err)
	}
	return msg, nil
}

// trim deletes the oldest messages after the first one until the history
// fits the limit.
func (j *Journal) trim(tx *graph.Tx, historyID string) error {
	if j.maxMessages <= 0 {
		return nil
	}
	ids := tx.Children(historyID, graph.RelHistoryMessages)
	excess := len(ids) - j.maxMessages
	if excess <= 0 {
		return nil
	}
	for _, id := range ids[1 : 1+excess] {
		if err := tx.Delete(id); err != nil {
			return err
		}
	}
	j.log.WithField("dropped", excess).Debug("trimmed history")
	return nil
}

func (j *Journal) ensureHistory(tx *graph.Tx) (string, error) {
	if id, ok := mainHistory(tx); ok {
		return id, nil
	}
	return syncer.MaterializeTx(tx, model.ChatHistory{ID: model.NewID(), IsMainHistory: true})
}

func mainHistory(r graph.Reader) (string, bool) {
	for _, n := range r.Nodes(model.KindChatHistory) {
		if main, _ := n.Attrs.Bool(graph.AttrKeyIsMainHistory); main {
			return n.ID, true
		}
	}
	return "", false
}

// Messages returns the main history in order.
func (j *Journal) Messages(ctx context.Context) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := j.graph.View(ctx, func(r graph.Reader) error {
		id, ok := mainHistory(r)
		if !ok {
			return nil
		}
		history, err := syncer.ExtractTxAs[model.ChatHistory](r, id)
		if err != nil {
			return err
		}
		msgs = history.Messages
		return nil
	})
	return msgs, err
}

// Len returns the number of messages in the main history.
func (j *Journal) Len(ctx context.Context) (int, error) {
	var n int
	err := j.graph.View(ctx, func(r graph.Reader) error {
		if id, ok := mainHistory(r); ok {
			n = len(r.Children(id, graph.RelHistoryMessages))
		}
		return nil
	})
	return n, err
}

// Reset deletes every message of the main history.
func (j *Journal) Reset(ctx context.Context) error {
	return j.graph.Update(ctx, func(tx *graph.Tx) error {
		id, ok := mainHistory(tx)
		if !ok {
			return nil
		}
		for _, msgID := range tx.Children(id, graph.RelHistoryMessages) {
			if err := tx.Delete(msgID); err != nil {
				return err
			}
		}
		return nil
	})
}
