package tui

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

// memCache is an in-memory session.Cache.
type memCache struct {
	rec     *domain.SessionRecord
	saveErr error
}

func (c *memCache) Load() (*domain.SessionRecord, error) {
	if c.rec == nil {
		return nil, nil
	}
	r := *c.rec
	return &r, nil
}

func (c *memCache) Save(r domain.SessionRecord) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.rec = &r
	return nil
}

func (c *memCache) Clear() error {
	c.rec = nil
	return nil
}

// fakeAPI records calls and answers with a canned record or error.
type fakeAPI struct {
	mu          sync.Mutex
	loginCalls  int
	updateCalls int
	email       string
	password    string
	update      client.ProfileUpdate
	token       string
	rec         *domain.SessionRecord
	err         error
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*domain.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	f.email, f.password = email, password
	return f.rec, f.err
}

func (f *fakeAPI) UpdateProfile(_ context.Context, upd client.ProfileUpdate, token string) (*domain.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.update, f.token = upd, token
	return f.rec, f.err
}

func sampleRecord() domain.SessionRecord {
	return domain.SessionRecord{ID: "1", Name: "Alice", Email: "a@b.com", Token: "T", IsAdmin: false}
}

// newTestDeps returns deps over a fresh store, optionally signed in.
func newTestDeps(t *testing.T, signedIn bool) (deps, *fakeAPI, *memCache) {
	t.Helper()
	cache := &memCache{}
	store := session.NewStore(cache, nil)
	if signedIn {
		if err := store.SetCurrent(sampleRecord()); err != nil {
			t.Fatalf("SetCurrent() error: %v", err)
		}
	}
	api := &fakeAPI{}
	return deps{api: api, store: store, logger: slog.New(slog.DiscardHandler)}, api, cache
}

// runCmd executes cmd and flattens the messages it produces. tea.Sequence
// keeps its order. tea.Batch members run concurrently in a real program,
// so they come back last-first to expose anything relying on their order.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for i := len(batch) - 1; i >= 0; i-- {
			out = append(out, runCmd(batch[i])...)
		}
		return out
	}
	if seq, ok := sequenceCmds(msg); ok {
		var out []tea.Msg
		for _, c := range seq {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// sequenceCmds unpacks the message tea.Sequence produces. Its type is
// unexported, so it is recognised by shape: a []tea.Cmd that is not a
// BatchMsg.
func sequenceCmds(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i] = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

// drive runs cmd and delivers its messages to a, then follows the commands
// those messages return. Notification timers are not followed.
func drive(a App, cmd tea.Cmd) App {
	for _, msg := range runCmd(cmd) {
		model, next := a.Update(msg)
		a = model.(App)
		if _, ok := msg.(notifyMsg); ok {
			continue
		}
		a = drive(a, next)
	}
	return a
}

// press delivers keys to a and drives each resulting command.
func press(a App, keys ...tea.KeyMsg) App {
	for _, k := range keys {
		model, cmd := a.Update(k)
		a = drive(model.(App), cmd)
	}
	return a
}

// findMsg returns the first message of type T.
func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func keyRunes(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return keys
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)
