package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// homeModel is the landing page at "/".
type homeModel struct {
	deps
}

func newHomeModel(d deps) homeModel {
	return homeModel{deps: d}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	_, signedIn := m.store.Current()
	switch key.String() {
	case "l":
		if !signedIn {
			return m, navigate(pathLogin)
		}
	case "p":
		return m, navigate(pathProfile)
	case "o":
		if signedIn {
			return m, m.logout()
		}
	}
	return m, nil
}

func (m homeModel) logout() tea.Cmd {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("logout", "err", err)
		return notify(noticeError, "Could not clear the saved session")
	}
	return notify(noticeInfo, "Logged out")
}

func (m homeModel) View() string {
	var b strings.Builder
	rec, ok := m.store.Current()
	if !ok {
		b.WriteString(titleStyle.Render("Welcome") + "\n")
		b.WriteString(dimStyle.Render("You are browsing as a guest.") + "\n\n")
		b.WriteString(helpEntry("l", "login") + "  " + helpEntry("p", "profile"))
		return "\n" + cardStyle.Render(b.String())
	}

	b.WriteString(titleStyle.Render("Welcome back, "+truncStr(rec.Name, 40)) + "\n")
	b.WriteString(dimStyle.Render(truncStr(rec.Email, 60)) + "\n")
	if rec.IsAdmin {
		b.WriteString(accentStyle.Render("admin") + "\n")
	}
	b.WriteString("\n" + helpEntry("p", "profile") + "  " + helpEntry("o", "logout"))
	return "\n" + cardStyle.Render(b.String())
}

func (m homeModel) helpKeys() string {
	if _, ok := m.store.Current(); ok {
		return helpBar("p", "profile", "o", "logout", "esc", "dismiss", "q", "quit")
	}
	return helpBar("l", "login", "p", "profile", "esc", "dismiss", "q", "quit")
}
