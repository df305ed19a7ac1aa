package tui

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/internal/browser"
	"github.com/naveenspark/storefront/internal/session"
)

// openBrowser is swapped out in tests.
var openBrowser = browser.Open

// Options configures an App.
type Options struct {
	// WebURL is prefixed to routes the TUI cannot render before they are
	// opened in the system browser.
	WebURL     string
	NotifyFor  time.Duration
	Version    string
	ReleaseURL string
	Logger     *slog.Logger
}

// App is the root Bubbletea model. It owns routing between pages; pages
// own their form state and talk to the session store directly.
type App struct {
	deps
	opts    Options
	start   string
	route   route
	home    homeModel
	login   loginModel
	profile profileModel
	notice  noticeModel
	flowSeq int
	width   int
	height  int
	frame   int // logo shimmer animation frame
	latest  string
}

// NewApp creates a new TUI application that opens at start.
func NewApp(api AccountAPI, store *session.Store, start string, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.NotifyFor <= 0 {
		opts.NotifyFor = 4 * time.Second
	}
	d := deps{api: api, store: store, logger: opts.Logger}
	return App{
		deps:    d,
		opts:    opts,
		start:   start,
		route:   route{path: pathHome, query: url.Values{}},
		home:    newHomeModel(d),
		login:   newLoginModel(d),
		profile: newProfileModel(d),
		notice:  newNoticeModel(opts.NotifyFor),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), navigate(a.start), checkVersion(a.opts.Version, a.opts.ReleaseURL))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		a.login, _ = a.login.Update(msg)
		a.profile, _ = a.profile.Update(msg)
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.latest = msg.latestVersion
		}
		return a, nil

	case navigateMsg:
		return a.goTo(msg.to)

	case notifyMsg, closeNoticeMsg, noticeExpiredMsg:
		var cmd tea.Cmd
		a.notice, cmd = a.notice.Update(msg)
		return a, cmd

	// Results always go to their page; the page drops them when the flow
	// that issued the request has been unmounted.
	case loginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case profileResultMsg:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.route.path != pathHome {
				return a, tea.Sequence(closeNotice, navigate(pathHome))
			}
			return a, closeNotice
		case "q":
			if a.route.path == pathHome {
				return a, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch a.route.path {
	case pathHome:
		a.home, cmd = a.home.Update(msg)
	case pathLogin:
		a.login, cmd = a.login.Update(msg)
	case pathProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

// goTo unmounts the current page and mounts the one for target. Targets the
// TUI has no page for are opened in the browser and the user lands home.
func (a App) goTo(target string) (tea.Model, tea.Cmd) {
	r := parseRoute(target)
	var extra tea.Cmd
	if !r.native() {
		extra = a.openExternal(target)
		r = route{path: pathHome}
	}

	switch a.route.path {
	case pathLogin:
		a.login = a.login.unmount()
	case pathProfile:
		a.profile = a.profile.unmount()
	}

	a.flowSeq++
	a.route = r
	a.logger.Debug("navigate", "to", target, "flow", a.flowSeq)

	var cmd tea.Cmd
	switch r.path {
	case pathLogin:
		a.login, cmd = a.login.mount(a.flowSeq, r.query.Get("redirect"))
	case pathProfile:
		a.profile, cmd = a.profile.mount(a.flowSeq)
	}
	return a, tea.Batch(cmd, extra)
}

func (a App) openExternal(target string) tea.Cmd {
	link := a.opts.WebURL + target
	return func() tea.Msg {
		if err := openBrowser(link); err != nil {
			return notifyMsg{variant: noticeInfo, text: "Open " + link + " in your browser"}
		}
		return notifyMsg{variant: noticeInfo, text: "Opened " + target + " in your browser"}
	}
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := centerLine(logo, a.width)

	var status []string
	if rec, ok := a.store.Current(); ok {
		status = append(status, "signed in as "+truncStr(rec.Email, 40))
	} else {
		status = append(status, "guest")
	}
	if a.latest != "" {
		status = append(status, a.latest+" available")
	}
	header += "\n" + centerLine(metaStyle.Render(strings.Join(status, " · ")), a.width)

	var body, help string
	switch a.route.path {
	case pathLogin:
		body = a.login.View()
		help = a.login.helpKeys()
	case pathProfile:
		body = a.profile.View()
		help = a.profile.helpKeys()
	case pathHome:
		body = a.home.View()
		help = a.home.helpKeys()
	default:
		body = "\n " + dimStyle.Render("loading...")
	}

	// Chrome budget: header(2) + notice(1) + help(1) = 4 lines + body
	const chrome = 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n %s\n%s", header, body, a.notice.View(), help)
}

func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
