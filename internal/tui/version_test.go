package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		latest  string
		current string
		want    bool
	}{
		{"1.0.1", "1.0.0", true},
		{"1.1.0", "1.0.0", true},
		{"2.0.0", "1.9.9", true},
		{"v1.0.1", "v1.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "1.0.1", false},
		{"dev", "dev", false},
		{"v0.5.0", "0.4.2", true},
	}

	for _, tc := range tests {
		t.Run(tc.latest+"_vs_"+tc.current, func(t *testing.T) {
			if got := isNewerVersion(tc.latest, tc.current); got != tc.want {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tc.latest, tc.current, got, tc.want)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"tag_name": "v0.5.0"}) //nolint:errcheck
	}))
	defer srv.Close()

	msg, ok := checkVersion("0.4.2", srv.URL)().(versionCheckMsg)
	if !ok {
		t.Fatal("checkVersion did not return versionCheckMsg")
	}
	if !msg.hasUpdate || msg.latestVersion != "v0.5.0" {
		t.Errorf("checkVersion = %+v, want update to v0.5.0", msg)
	}

	msg = checkVersion("0.5.0", srv.URL)().(versionCheckMsg)
	if msg.hasUpdate {
		t.Error("hasUpdate = true when already current")
	}
}

func TestCheckVersionDevBuild(t *testing.T) {
	if cmd := checkVersion("dev", "https://releases.shop.example/latest"); cmd != nil {
		t.Error("checkVersion(dev) returned a command")
	}
	if cmd := checkVersion("1.0.0", ""); cmd != nil {
		t.Error("checkVersion without URL returned a command")
	}
}

func TestCheckVersionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if msg := checkVersion("0.4.2", srv.URL)().(versionCheckMsg); msg.hasUpdate {
		t.Errorf("checkVersion on 500 = %+v, want no update", msg)
	}
}

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in   string
		want semver
	}{
		{"v1.2.3", semver{1, 2, 3}},
		{"1.2", semver{1, 2, 0}},
		{"dev", semver{0, 0, 0}},
		{"2.0.0-rc1", semver{2, 0, 0}},
	}
	for _, tc := range tests {
		if got := parseSemver(tc.in); got != tc.want {
			t.Errorf("parseSemver(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
