package tui

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Paths the TUI renders itself. Anything else is handed to the browser.
const (
	pathHome    = "/"
	pathLogin   = "/login"
	pathProfile = "/profile"
)

// route is a parsed navigation target.
type route struct {
	path  string
	query url.Values
}

// navigateMsg asks the App to leave the current page for target.
type navigateMsg struct {
	to string
}

func navigate(to string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

func parseRoute(target string) route {
	u, err := url.Parse(target)
	if err != nil || u.Path == "" {
		return route{path: pathHome, query: url.Values{}}
	}
	return route{path: u.Path, query: u.Query()}
}

// native reports whether the TUI has a page for the route.
func (r route) native() bool {
	switch r.path {
	case pathHome, pathLogin, pathProfile:
		return true
	}
	return false
}

// safeRedirect returns target when it is a same-site absolute path, and the
// home path otherwise. Protocol-relative and absolute URLs are refused.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return pathHome
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return pathHome
	}
	return target
}

// loginPathFor builds the login route that returns to redirect afterwards.
func loginPathFor(redirect string) string {
	if redirect == "" || redirect == pathHome {
		return pathLogin
	}
	return pathLogin + "?" + url.Values{"redirect": {redirect}}.Encode()
}
