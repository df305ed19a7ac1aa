package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type noticeVariant int

const (
	noticeInfo noticeVariant = iota
	noticeError
	noticeSuccess
)

// notifyMsg opens a transient notification, replacing any visible one.
type notifyMsg struct {
	variant noticeVariant
	text    string
}

// closeNoticeMsg dismisses the visible notification.
type closeNoticeMsg struct{}

// noticeExpiredMsg fires when a notification's display time runs out.
type noticeExpiredMsg struct {
	id string
}

func notify(variant noticeVariant, text string) tea.Cmd {
	return func() tea.Msg { return notifyMsg{variant: variant, text: text} }
}

func closeNotice() tea.Msg { return closeNoticeMsg{} }

// noticeModel shows at most one notification at a time.
type noticeModel struct {
	ttl     time.Duration
	id      string
	variant noticeVariant
	text    string
}

func newNoticeModel(ttl time.Duration) noticeModel {
	return noticeModel{ttl: ttl}
}

func (m noticeModel) visible() bool { return m.id != "" }

func (m noticeModel) Update(msg tea.Msg) (noticeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notifyMsg:
		id := uuid.NewString()
		m.id, m.variant, m.text = id, msg.variant, msg.text
		return m, tea.Tick(m.ttl, func(time.Time) tea.Msg {
			return noticeExpiredMsg{id: id}
		})
	case noticeExpiredMsg:
		// A newer notification owns the slot; its own timer will clear it.
		if msg.id == m.id {
			m.id, m.text = "", ""
		}
	case closeNoticeMsg:
		m.id, m.text = "", ""
	}
	return m, nil
}

func (m noticeModel) View() string {
	if !m.visible() {
		return ""
	}
	switch m.variant {
	case noticeError:
		return noticeErrorStyle.Render("✗ " + m.text)
	case noticeSuccess:
		return noticeSuccessStyle.Render("✓ " + m.text)
	}
	return noticeInfoStyle.Render(m.text)
}
