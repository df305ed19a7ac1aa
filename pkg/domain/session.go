package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserID is a backend user identifier. The storefront API has served both
// numeric and string ids, so decoding accepts either and keeps the text form.
type UserID string

// UnmarshalJSON accepts a JSON string or number.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode user id: %w", err)
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// SessionRecord is the authenticated user's identity and bearer credential
// as returned by the login and profile endpoints.
type SessionRecord struct {
	ID      UserID `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
}

// Valid reports whether the record carries enough to act as a session.
func (r SessionRecord) Valid() bool {
	return r.Token != "" && r.Email != ""
}
