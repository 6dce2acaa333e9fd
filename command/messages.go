package command

import (
	"strings"
	"time"
)

const (
	TypeSaveToken   = "meetup.command.token.save"
	TypeRevokeToken = "meetup.command.token.revoke"
)

// SaveTokenMessage stores Token as the active token for Account. A zero
// ExpiresAt means no expiry.
type SaveTokenMessage struct {
	Account   string
	Token     string
	ExpiresAt time.Time
}

func (SaveTokenMessage) Type() string { return TypeSaveToken }

func (m SaveTokenMessage) Validate() error {
	if strings.TrimSpace(m.Token) == "" {
		return commandValidationError("token", "access token is required")
	}
	return nil
}

type RevokeTokenMessage struct {
	Account string
}

func (RevokeTokenMessage) Type() string { return TypeRevokeToken }

func (RevokeTokenMessage) Validate() error { return nil }
