// internal/api/binding.go
package api

import (
	"context"
	"time"

	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"
	"listing-wizard/internal/wizard"
)

// Wizard is a mounted session with its flow's type erased, so one router
// can serve every flow.
type Wizard interface {
	ID() string
	FlowName() string
	View() interface{}
	Patch(section string, raw []byte) error
	Blur(field string) string
	ValidateScreen() bool
	Attach(ctx context.Context, field string, f models.File) (string, error)
	Next(ctx context.Context) bool
	Back(ctx context.Context) bool
	Save(ctx context.Context) error
	Submit(ctx context.Context) bool
	Cancel(ctx context.Context)
	Resume(ctx context.Context) bool
	SetIdentity(id models.Identity)
}

// DecodeFunc turns a section update body into a typed patch.
type DecodeFunc[S any] func(section string, raw []byte) (wizard.Patch[S], error)

// SessionEnv is what every new session needs besides its flow.
type SessionEnv struct {
	KV        wizard.KV
	KeyPrefix string
	DraftTTL  time.Duration
	Logger    logger.Logger
	Recorders []wizard.Recorder
}

// FlowSpec registers one flow with the router.
type FlowSpec struct {
	Name string
	open func(env SessionEnv, userID, sessionID string) Wizard
}

// Bind erases the state type of a flow so the registry can hold it.
func Bind[S any](flow *wizard.Flow[S], submitter wizard.Submitter[S], decode DecodeFunc[S]) FlowSpec {
	return FlowSpec{
		Name: flow.Name,
		open: func(env SessionEnv, userID, sessionID string) Wizard {
			var drafts *wizard.Gateway[S]
			if env.KV != nil {
				drafts = wizard.NewGateway(env.KV, flow, wizard.DraftKey(env.KeyPrefix, flow.Name, userID), env.DraftTTL, env.Logger)
			}
			s := wizard.NewSession(flow, drafts, submitter, wizard.Options{
				SessionID: sessionID,
				UserID:    userID,
				Logger:    env.Logger,
				Recorders: env.Recorders,
			})
			return &binding[S]{session: s, decode: decode}
		},
	}
}

type binding[S any] struct {
	session *wizard.Session[S]
	decode  DecodeFunc[S]
}

func (b *binding[S]) ID() string { return b.session.ID() }

func (b *binding[S]) FlowName() string { return b.session.Flow().Name }

func (b *binding[S]) View() interface{} { return b.session.View() }

func (b *binding[S]) Patch(section string, raw []byte) error {
	p, err := b.decode(section, raw)
	if err != nil {
		return err
	}
	b.session.Update(p)
	return nil
}

func (b *binding[S]) Blur(field string) string { return b.session.Blur(field) }

func (b *binding[S]) ValidateScreen() bool { return b.session.ValidateScreen() }

func (b *binding[S]) Attach(ctx context.Context, field string, f models.File) (string, error) {
	return b.session.Attach(ctx, field, f)
}

func (b *binding[S]) Next(ctx context.Context) bool { return b.session.Next(ctx) }

func (b *binding[S]) Back(ctx context.Context) bool { return b.session.Back(ctx) }

func (b *binding[S]) Save(ctx context.Context) error { return b.session.Save(ctx) }

func (b *binding[S]) Submit(ctx context.Context) bool { return b.session.Submit(ctx) }

func (b *binding[S]) Cancel(ctx context.Context) { b.session.Cancel(ctx) }

func (b *binding[S]) Resume(ctx context.Context) bool { return b.session.Resume(ctx) }

func (b *binding[S]) SetIdentity(id models.Identity) { b.session.SetIdentity(id) }
