// internal/wizard/draft.go
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listing-wizard/internal/common/database"
	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/common/validation"
)

const draftVersion = 1

var draftSchema = validation.MustCompileSchema(validation.DraftEnvelopeSchema)

// KV is the draft slot: one string value per key, overwritten wholesale.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Snapshot is a rehydrated draft. Attachments are always unattached.
type Snapshot[S any] struct {
	Position Position
	Sections S
	SavedAt  time.Time
}

type envelope struct {
	Version  int             `json:"version"`
	Flow     string          `json:"flow"`
	Position Position        `json:"position"`
	Sections json.RawMessage `json:"sections"`
	SavedAt  time.Time       `json:"savedAt"`
}

// DraftKey builds the flow specific slot key for one user.
func DraftKey(prefix, flow, userID string) string {
	return fmt.Sprintf("%s:draft:%s:%s", prefix, flow, userID)
}

// Gateway serializes sections and position to a KV slot.
type Gateway[S any] struct {
	kv     KV
	flow   *Flow[S]
	key    string
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func NewGateway[S any](kv KV, flow *Flow[S], key string, ttl time.Duration, log logger.Logger) *Gateway[S] {
	return &Gateway[S]{
		kv:   kv,
		flow: flow,
		key:  key,
		ttl:  ttl,
		logger: log.WithFields(map[string]interface{}{
			"flow":     flow.Name,
			"draftKey": key,
		}),
		now: time.Now,
	}
}

func (g *Gateway[S]) Key() string {
	return g.key
}

// Save writes {position, sections-without-attachments} under the key.
func (g *Gateway[S]) Save(ctx context.Context, pos Position, sections S) error {
	raw, err := json.Marshal(g.flow.StripAttachments(sections))
	if err != nil {
		return apperrors.NewDraftSaveFailedError(g.flow.Name, err)
	}
	doc, err := json.Marshal(envelope{
		Version:  draftVersion,
		Flow:     g.flow.Name,
		Position: pos,
		Sections: raw,
		SavedAt:  g.now().UTC(),
	})
	if err != nil {
		return apperrors.NewDraftSaveFailedError(g.flow.Name, err)
	}

	if err := g.kv.Set(ctx, g.key, string(doc), g.ttl); err != nil {
		return apperrors.NewDraftSaveFailedError(g.flow.Name, err)
	}

	g.logger.Info("draft saved", map[string]interface{}{
		"position": pos.String(),
		"bytes":    len(doc),
	})
	return nil
}

// Load returns nil when the slot is empty or holds anything unusable; the
// caller then starts from defaults.
func (g *Gateway[S]) Load(ctx context.Context) *Snapshot[S] {
	doc, err := g.kv.Get(ctx, g.key)
	if err != nil {
		if !errors.Is(err, database.ErrKeyNotFound) {
			g.logger.Warn("draft read failed", map[string]interface{}{"error": err})
		}
		return nil
	}

	snap, err := g.decode([]byte(doc))
	if err != nil {
		g.logger.Warn("discarding unreadable draft", map[string]interface{}{"error": err})
		return nil
	}
	return snap
}

func (g *Gateway[S]) decode(doc []byte) (*Snapshot[S], error) {
	if res := draftSchema.ValidateDocument(doc); !res.Valid {
		return nil, apperrors.NewDraftCorruptError(g.flow.Name, fmt.Sprintf("%v", res.GetErrorMessages()))
	}

	var env envelope
	if err := json.Unmarshal(doc, &env); err != nil {
		return nil, apperrors.NewDraftCorruptError(g.flow.Name, err.Error())
	}
	if env.Flow != g.flow.Name {
		return nil, apperrors.NewDraftCorruptError(g.flow.Name, "draft belongs to flow "+env.Flow)
	}
	if !g.flow.Valid(env.Position) {
		return nil, apperrors.NewDraftCorruptError(g.flow.Name, "no screen at position "+env.Position.String())
	}

	sections := g.flow.Defaults()
	if err := json.Unmarshal(env.Sections, &sections); err != nil {
		return nil, apperrors.NewDraftCorruptError(g.flow.Name, err.Error())
	}

	return &Snapshot[S]{
		Position: env.Position,
		Sections: g.flow.StripAttachments(sections),
		SavedAt:  env.SavedAt,
	}, nil
}

// Clear removes the slot.
func (g *Gateway[S]) Clear(ctx context.Context) error {
	if err := g.kv.Del(ctx, g.key); err != nil {
		return fmt.Errorf("clear draft %s: %w", g.key, err)
	}
	g.logger.Info("draft cleared", nil)
	return nil
}
