package cli

import (
	"context"
	"io"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
	meetup "github.com/goliatone/go-meetup"
	"github.com/goliatone/go-meetup/adapters/gologger"
	"github.com/goliatone/go-meetup/config"
	"github.com/goliatone/go-meetup/core"
	sqlstore "github.com/goliatone/go-meetup/store/sql"
	"github.com/spf13/cobra"
)

// session is the per-invocation wiring: config file, token store and client.
type session struct {
	file    config.File
	loader  *config.YAMLFileLoader
	account string
	tokens  *sqlstore.TokenStore
	closers []func() error
}

func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	loader := &config.YAMLFileLoader{Path: strings.TrimSpace(opts.ConfigPath)}
	file, err := loader.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	s := &session{file: file, loader: loader}

	s.account = strings.TrimSpace(opts.Account)
	if s.account == "" {
		s.account = strings.TrimSpace(file.TokenStore.Account)
	}
	if s.account == "" {
		s.account = sqlstore.DefaultAccount
	}

	dsn := strings.TrimSpace(opts.TokenDB)
	driver := "sqlite3"
	if dsn == "" {
		dsn = strings.TrimSpace(file.TokenStore.DSN)
		if value := strings.TrimSpace(file.TokenStore.Driver); value != "" {
			driver = value
		}
	}
	if dsn != "" {
		client, openErr := sqlstore.Open(ctx, sqlstore.Config{Driver: driver, DSN: dsn})
		if openErr != nil {
			return nil, WrapExitError(ExitCommandError, "open token database", openErr)
		}
		s.closers = append(s.closers, client.Close)
		tokens, storeErr := sqlstore.NewTokenStore(client)
		if storeErr != nil {
			_ = s.Close()
			return nil, WrapExitError(ExitCommandError, "open token store", storeErr)
		}
		s.tokens = tokens
	}
	return s, nil
}

func (s *session) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// credentials picks --token, then the token database, then TokenEnv.
func (s *session) credentials(opts *RootOptions) core.CredentialProvider {
	if token := strings.TrimSpace(opts.Token); token != "" {
		return core.StaticCredential(token)
	}
	if s.tokens != nil {
		return s.tokens.Provider(s.account)
	}
	return core.EnvCredential(TokenEnv)
}

func (s *session) requireTokens() (*sqlstore.TokenStore, error) {
	if s.tokens == nil {
		return nil, NewExitError(ExitCommandError, "a token database is required: pass --token-db or set token_store.dsn in the config file")
	}
	return s.tokens, nil
}

func (s *session) facade(cmd *cobra.Command, opts *RootOptions) (*meetup.Facade, error) {
	clientOpts := []meetup.Option{
		meetup.WithConfigProvider(core.NewCfgxConfigProvider(s.loader)),
		meetup.WithCredentialProvider(s.credentials(opts)),
	}
	clientOpts = append(clientOpts, gologger.ClientOptions("meetup-cli", nil, newLogger(cmd.ErrOrStderr(), opts.Verbose))...)
	if opts.Transport != nil {
		clientOpts = append(clientOpts, meetup.WithTransport(opts.Transport))
	}

	client, err := meetup.NewClient(meetup.Config{RequestTimeout: opts.Timeout}, clientOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure client", err)
	}
	return meetup.NewFacade(client)
}

// withSession opens a session for one command run and closes it afterwards.
func withSession(cmd *cobra.Command, opts *RootOptions, run func(ctx context.Context, s *session, out *OutputFormatter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	s, err := openSession(ctx, opts)
	if err != nil {
		return out.Failure(GetExitCode(err), err)
	}
	defer func() { _ = s.Close() }()
	return run(ctx, s, out)
}

func newLogger(w io.Writer, verbose bool) glog.Logger {
	if !verbose {
		return glog.Nop()
	}
	return glog.NewLogger(
		glog.WithName("meetup-cli"),
		glog.WithWriter(w),
		glog.WithLevel(glog.Debug),
		glog.WithLoggerTypeConsole(),
	)
}
