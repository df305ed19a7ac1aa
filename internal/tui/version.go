package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const releaseCheckTimeout = 5 * time.Second

// versionCheckMsg reports a newer release, or nothing when latestVersion is
// empty.
type versionCheckMsg struct {
	latestVersion string
	hasUpdate     bool
}

// release is the part of the release endpoint's answer the status line uses.
type release struct {
	Tag string `json:"tag_name"`
}

// checkVersion asks releaseURL for the newest release. Dev builds and an
// unset URL skip the check. Any failure is silent: the status line simply
// shows no update.
func checkVersion(current, releaseURL string) tea.Cmd {
	if current == "" || current == "dev" || releaseURL == "" {
		return nil
	}
	return func() tea.Msg {
		latest, err := fetchRelease(releaseURL)
		if err != nil || !isNewerVersion(latest, current) {
			return versionCheckMsg{}
		}
		return versionCheckMsg{latestVersion: "v" + strings.TrimPrefix(latest, "v"), hasUpdate: true}
	}
}

func fetchRelease(releaseURL string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release check: status %d", resp.StatusCode)
	}
	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", err
	}
	return rel.Tag, nil
}

// semver is a major.minor.patch triple. Missing or non-numeric parts are 0.
type semver [3]int

func parseSemver(v string) semver {
	var s semver
	for i, part := range strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3) {
		s[i], _ = strconv.Atoi(part) //nolint:errcheck // zero on parse failure
	}
	return s
}

func (s semver) less(o semver) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// isNewerVersion reports whether latest sorts after current.
func isNewerVersion(latest, current string) bool {
	return parseSemver(current).less(parseSemver(latest))
}
