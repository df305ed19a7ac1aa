package tui

import (
	"context"
	"log/slog"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

// AccountAPI is the slice of the storefront backend the account pages use.
type AccountAPI interface {
	Login(ctx context.Context, email, password string) (*domain.SessionRecord, error)
	UpdateProfile(ctx context.Context, upd client.ProfileUpdate, token string) (*domain.SessionRecord, error)
}

var _ AccountAPI = (*client.Client)(nil)

// msgIncompleteSession is shown when the backend answers 2xx without a
// usable session record.
const msgIncompleteSession = "Unexpected response from the store. Please try again."

// deps are shared by every page.
type deps struct {
	api    AccountAPI
	store  *session.Store
	logger *slog.Logger
}

// flow identifies one mount of a page. Responses tagged with an older flow
// id belong to a page instance that no longer exists and are dropped.
type flow struct {
	id     int
	ctx    context.Context
	cancel context.CancelFunc
}

func newFlow(id int) flow {
	ctx, cancel := context.WithCancel(context.Background())
	return flow{id: id, ctx: ctx, cancel: cancel}
}

// stop cancels any request still running for this mount.
func (f flow) stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// current reports whether a response tagged id belongs to this mount.
func (f flow) current(id int) bool {
	return f.cancel != nil && f.id == id && f.ctx.Err() == nil
}
