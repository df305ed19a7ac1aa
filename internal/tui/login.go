package tui

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/form"
	"github.com/naveenspark/storefront/internal/validate"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

type loginState int

const (
	loginViewingForm loginState = iota
	loginRedirectingHome
)

// loginResultMsg carries the outcome of a login request.
type loginResultMsg struct {
	flow int
	rec  *domain.SessionRecord
	err  error
}

type loginModel struct {
	deps
	form       *form.Form
	state      loginState
	flow       flow
	redirect   string
	submitting bool
	frame      int
}

func newLoginModel(d deps) loginModel {
	return loginModel{deps: d, form: form.New(validate.LoginRules()...)}
}

// mount runs the page guard once: a signed-in user never sees the form.
func (m loginModel) mount(flowID int, redirect string) (loginModel, tea.Cmd) {
	m.flow.stop()
	m.form = form.New(validate.LoginRules()...)
	m.flow = newFlow(flowID)
	m.redirect = safeRedirect(redirect)
	m.submitting = false
	m.state = loginViewingForm

	if _, ok := m.store.Current(); ok {
		m.state = loginRedirectingHome
		return m, navigate(pathHome)
	}
	return m, nil
}

func (m loginModel) unmount() loginModel {
	m.flow.stop()
	m.submitting = false
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		return m.handleResult(msg)
	case shimmerTickMsg:
		m.frame++
		return m, nil
	case tea.KeyMsg:
		if m.state != loginViewingForm {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.form.FocusIndex() == len(m.form.Fields())-1 {
			return m.submit()
		}
		m.form.Next()
	case "tab", "down":
		m.form.Next()
	case "shift+tab", "up":
		m.form.Prev()
	case "ctrl+r":
		return m, navigate("/register?" + url.Values{"redirect": {m.redirect}}.Encode())
	default:
		if !m.submitting {
			m.form.Edit(msg.String())
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	var req tea.Cmd
	res := m.form.ValidateAndSubmit(func(v form.Values) {
		req = m.loginCmd(v[validate.FieldEmail], v[validate.FieldPassword])
	})
	if !res.Submitted {
		return m, nil
	}
	m.submitting = true
	// closeNotice must be delivered before the result, or a fast failure
	// would clear its own notification.
	return m, tea.Sequence(closeNotice, req)
}

func (m loginModel) loginCmd(email, password string) tea.Cmd {
	api, f := m.api, m.flow
	return func() tea.Msg {
		rec, err := api.Login(f.ctx, email, password)
		return loginResultMsg{flow: f.id, rec: rec, err: err}
	}
}

func (m loginModel) handleResult(msg loginResultMsg) (loginModel, tea.Cmd) {
	if !m.flow.current(msg.flow) {
		m.logger.Debug("dropping login response for unmounted page", "flow", msg.flow)
		return m, nil
	}
	m.submitting = false
	if msg.err != nil {
		m.logger.Info("login failed", "err", msg.err)
		return m, notify(noticeError, client.ErrorMessage(msg.err))
	}
	if msg.rec == nil || !msg.rec.Valid() {
		m.logger.Warn("login response carried no session")
		return m, notify(noticeError, msgIncompleteSession)
	}
	if err := m.store.SetCurrent(*msg.rec); err != nil {
		m.logger.Warn("session cookie not saved", "err", err)
	}
	m.state = loginRedirectingHome
	return m, navigate(m.redirect)
}

func (m loginModel) View() string {
	if m.state == loginRedirectingHome {
		return "\n " + dimStyle.Render("already signed in, redirecting...")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Login") + "\n")

	focus := m.form.FocusIndex()
	renderField(&b, "Email", m.form.Field(validate.FieldEmail), focus == 0, false, m.frame)
	renderField(&b, "Password", m.form.Field(validate.FieldPassword), focus == 1, true, m.frame)

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("  " + buttonBusyStyle.Render("logging in..."))
	} else {
		b.WriteString("  " + buttonStyle.Render("Login"))
	}
	b.WriteString("\n\n  " + dimStyle.Render("Don't have an account? ") + accentStyle.Render("ctrl+r") + dimStyle.Render(" register"))

	return "\n" + cardStyle.Render(b.String())
}

func (m loginModel) helpKeys() string {
	return helpBar("tab", "next", "enter", "login", "ctrl+r", "register", "esc", "home")
}
