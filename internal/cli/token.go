package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gocmd "github.com/goliatone/go-command"
	meetup "github.com/goliatone/go-meetup"
	"github.com/goliatone/go-meetup/adapters/gocommand"
	meetupcommand "github.com/goliatone/go-meetup/command"
	sqlstore "github.com/goliatone/go-meetup/store/sql"
	"github.com/spf13/cobra"
)

// NewTokenCommand groups the token database subcommands.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage stored access tokens",
	}
	cmd.AddCommand(newTokenSetCommand(opts))
	cmd.AddCommand(newTokenShowCommand(opts))
	cmd.AddCommand(newTokenRevokeCommand(opts))
	return cmd
}

func newTokenSetCommand(opts *RootOptions) *cobra.Command {
	var expiresIn time.Duration
	cmd := &cobra.Command{
		Use:   "set <access-token>",
		Short: "Store an access token, replacing the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if expiresIn < 0 {
				return NewExitError(ExitCommandError, "expires-in must be >= 0")
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				tokens, err := s.requireTokens()
				if err != nil {
					return out.Failure(ExitCommandError, err)
				}
				var expiresAt time.Time
				if expiresIn > 0 {
					expiresAt = time.Now().UTC().Add(expiresIn)
				}
				saved, err := dispatchToken[sqlstore.AccessToken](ctx, tokens,
					meetupcommand.SaveTokenMessage{Account: s.account, Token: args[0], ExpiresAt: expiresAt},
				)
				if err != nil {
					return out.Failure(ExitCommandError, err)
				}
				view := newTokenView(saved, time.Now().UTC())
				return out.Success(view, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Saved token for %s.\n", view.Account)
					return err
				})
			})
		},
	}
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime (0 means no expiry)")
	return cmd
}

func newTokenShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active token for the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				tokens, err := s.requireTokens()
				if err != nil {
					return out.Failure(ExitCommandError, err)
				}
				token, err := tokens.Latest(ctx, s.account)
				if errors.Is(err, sqlstore.ErrTokenNotFound) {
					return out.Failure(ExitFailure, err)
				}
				if err != nil {
					return out.Failure(ExitCommandError, err)
				}
				view := newTokenView(token, time.Now().UTC())
				return out.Success(view, func(w io.Writer) error { return renderToken(w, view) })
			})
		},
	}
}

func newTokenRevokeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke the active token for the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				tokens, err := s.requireTokens()
				if err != nil {
					return out.Failure(ExitCommandError, err)
				}
				outcome, err := dispatchToken[meetupcommand.RevokeResult](ctx, tokens,
					meetupcommand.RevokeTokenMessage{Account: s.account},
				)
				if err != nil {
					return out.Failure(ExitCommandError, err)
				}
				revoked := outcome.Revoked
				result := map[string]any{"account": s.account, "revoked": revoked}
				return out.Success(result, func(w io.Writer) error {
					if revoked == 0 {
						_, err := fmt.Fprintf(w, "No active token for %s.\n", s.account)
						return err
					}
					_, err := fmt.Fprintf(w, "Revoked token for %s.\n", s.account)
					return err
				})
			})
		},
	}
}

// dispatchToken subscribes the token commanders for one run, dispatches msg
// and returns the value the commander stored.
func dispatchToken[R any, T any](ctx context.Context, tokens meetupcommand.TokenWriter, msg T) (R, error) {
	var zero R
	adapter := gocommand.NewRegistryAdapter(nil)
	subscriptions, err := meetup.RegisterTokenCommands(adapter, tokens)
	if err != nil {
		return zero, err
	}
	defer func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	}()
	if err := adapter.Initialize(); err != nil {
		return zero, err
	}

	collector := gocmd.NewResult[R]()
	if err := gocommand.Dispatch(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return zero, err
	}
	value, stored := collector.Load()
	if !stored {
		return zero, fmt.Errorf("token command stored no result")
	}
	return value, nil
}
