package command

import (
	"context"
	"time"

	gocmd "github.com/goliatone/go-command"
	sqlstore "github.com/goliatone/go-meetup/store/sql"
)

// TokenWriter is the write side of the token store.
type TokenWriter interface {
	Save(ctx context.Context, account string, token string, expiresAt time.Time) (sqlstore.AccessToken, error)
	Revoke(ctx context.Context, account string) (int64, error)
}

// RevokeResult is stored in the result collector by RevokeTokenCommand.
type RevokeResult struct {
	Account string
	Revoked int64
}

type SaveTokenCommand struct {
	tokens TokenWriter
}

func NewSaveTokenCommand(tokens TokenWriter) *SaveTokenCommand {
	return &SaveTokenCommand{tokens: tokens}
}

func (c *SaveTokenCommand) Execute(ctx context.Context, msg SaveTokenMessage) error {
	if c == nil || c.tokens == nil {
		return commandDependencyError("command: token store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	saved, err := c.tokens.Save(ctx, msg.Account, msg.Token, msg.ExpiresAt)
	if err != nil {
		return err
	}
	storeResult(ctx, saved)
	return nil
}

type RevokeTokenCommand struct {
	tokens TokenWriter
}

func NewRevokeTokenCommand(tokens TokenWriter) *RevokeTokenCommand {
	return &RevokeTokenCommand{tokens: tokens}
}

func (c *RevokeTokenCommand) Execute(ctx context.Context, msg RevokeTokenMessage) error {
	if c == nil || c.tokens == nil {
		return commandDependencyError("command: token store is required")
	}
	revoked, err := c.tokens.Revoke(ctx, msg.Account)
	if err != nil {
		return err
	}
	storeResult(ctx, RevokeResult{Account: msg.Account, Revoked: revoked})
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
