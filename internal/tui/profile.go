package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/internal/form"
	"github.com/naveenspark/storefront/internal/validate"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

type profileState int

const (
	profileRedirectingToLogin profileState = iota
	profileViewingForm
	profileSubmitting
)

const pathOrderHistory = "/order-history"

// Notification texts shown by the profile page.
const (
	msgPasswordsMismatch = "Passwords don't match"
	msgProfileUpdated    = "Profile updated successfully"
)

// profileResultMsg carries the outcome of a profile update.
type profileResultMsg struct {
	flow int
	rec  *domain.SessionRecord
	err  error
}

// profileMenu is the side menu of the account area.
var profileMenu = []struct {
	label string
	path  string
}{
	{"User Profile", pathProfile},
	{"Order History", pathOrderHistory},
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

type profileModel struct {
	deps
	form  *form.Form
	state profileState
	flow  flow
	frame int
}

func newProfileModel(d deps) profileModel {
	return profileModel{deps: d, form: form.New(validate.ProfileRules()...)}
}

// mount runs the access guard once and seeds the form from the session.
func (m profileModel) mount(flowID int) (profileModel, tea.Cmd) {
	m.flow.stop()
	m.flow = newFlow(flowID)
	m.form = form.New(validate.ProfileRules()...)

	rec, ok := m.store.Current()
	if !ok {
		m.state = profileRedirectingToLogin
		return m, navigate(loginPathFor(pathProfile))
	}
	m.form.Set(validate.FieldName, rec.Name)
	m.form.Set(validate.FieldEmail, rec.Email)
	m.state = profileViewingForm
	return m, nil
}

func (m profileModel) unmount() profileModel {
	m.flow.stop()
	if m.state == profileSubmitting {
		m.state = profileViewingForm
	}
	return m
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileResultMsg:
		return m.handleResult(msg)
	case shimmerTickMsg:
		m.frame++
		return m, nil
	case tea.KeyMsg:
		if m.state == profileRedirectingToLogin {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m profileModel) updateKeys(msg tea.KeyMsg) (profileModel, tea.Cmd) {
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
	case "ctrl+o":
		return m, navigate(pathOrderHistory)
	case "ctrl+y":
		return m, m.copyAccountID()
	default:
		if m.state == profileViewingForm {
			m.form.Edit(msg.String())
		}
	}
	return m, nil
}

func (m profileModel) copyAccountID() tea.Cmd {
	rec, ok := m.store.Current()
	if !ok {
		return nil
	}
	id := string(rec.ID)
	return func() tea.Msg {
		if err := copyToClipboard(id); err != nil {
			return notifyMsg{variant: noticeError, text: "Clipboard unavailable"}
		}
		return notifyMsg{variant: noticeInfo, text: "Account id copied"}
	}
}

func (m profileModel) submit() (profileModel, tea.Cmd) {
	if m.state != profileViewingForm {
		return m, nil
	}
	var values form.Values
	res := m.form.ValidateAndSubmit(func(v form.Values) { values = v })
	if !res.Submitted {
		return m, nil
	}
	if !validate.PasswordsMatch(values) {
		return m, notify(noticeError, msgPasswordsMismatch)
	}

	rec, ok := m.store.Current()
	if !ok {
		m.state = profileRedirectingToLogin
		return m, navigate(loginPathFor(pathProfile))
	}
	upd := client.ProfileUpdate{
		Name:     values[validate.FieldName],
		Email:    values[validate.FieldEmail],
		Password: values[validate.FieldPassword],
	}
	m.state = profileSubmitting
	return m, tea.Sequence(closeNotice, m.updateCmd(upd, rec.Token))
}

func (m profileModel) updateCmd(upd client.ProfileUpdate, token string) tea.Cmd {
	api, f := m.api, m.flow
	return func() tea.Msg {
		rec, err := api.UpdateProfile(f.ctx, upd, token)
		return profileResultMsg{flow: f.id, rec: rec, err: err}
	}
}

func (m profileModel) handleResult(msg profileResultMsg) (profileModel, tea.Cmd) {
	if !m.flow.current(msg.flow) {
		m.logger.Debug("dropping profile response for unmounted page", "flow", msg.flow)
		return m, nil
	}
	m.state = profileViewingForm
	if msg.err != nil {
		m.logger.Info("profile update failed", "err", msg.err)
		return m, notify(noticeError, client.ErrorMessage(msg.err))
	}
	if msg.rec == nil || !msg.rec.Valid() {
		m.logger.Warn("profile response carried no session")
		return m, notify(noticeError, msgIncompleteSession)
	}
	if err := m.store.SetCurrent(*msg.rec); err != nil {
		m.logger.Warn("session cookie not saved", "err", err)
	}
	m.form.Set(validate.FieldName, msg.rec.Name)
	m.form.Set(validate.FieldEmail, msg.rec.Email)
	return m, notify(noticeSuccess, msgProfileUpdated)
}

func (m profileModel) View() string {
	if m.state == profileRedirectingToLogin {
		return "\n " + dimStyle.Render("sign in required, redirecting...")
	}

	var menu strings.Builder
	for _, item := range profileMenu {
		if item.path == pathProfile {
			menu.WriteString(menuSelectedStyle.Render("▸ "+item.label) + "\n")
		} else {
			menu.WriteString(dimStyle.Render("  "+item.label) + "\n")
		}
	}
	menu.WriteString("\n" + helpEntry("ctrl+o", "orders"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile") + "\n")
	labels := []string{"Name", "Email", "Password", "Confirm Password"}
	for i, fld := range m.form.Fields() {
		masked := fld.Name() == validate.FieldPassword || fld.Name() == validate.FieldConfirmPassword
		renderField(&b, labels[i], fld, i == m.form.FocusIndex(), masked, m.frame)
	}
	b.WriteString("\n")
	if m.state == profileSubmitting {
		b.WriteString("  " + buttonBusyStyle.Render("updating..."))
	} else {
		b.WriteString("  " + buttonStyle.Render("Update"))
	}
	b.WriteString("\n\n  " + metaStyle.Render("leave both passwords empty to keep the current one"))

	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(menu.String()),
		" ",
		cardStyle.Render(b.String()),
	)
}

func (m profileModel) helpKeys() string {
	return helpBar("tab", "next", "ctrl+s", "update", "ctrl+o", "orders", "ctrl+y", "copy id", "esc", "home")
}
