// Package cli implements the meetup command line tool.
package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/goliatone/go-meetup/core"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Token      string
	TokenDB    string
	Account    string
	Timeout    time.Duration

	// Transport replaces the HTTP transport when set.
	Transport core.Transport
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// TokenEnv is read when neither --token nor a token database is configured.
const TokenEnv = "MEETUP_TOKEN"

func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions builds the command tree over opts, which flag
// parsing then fills in.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "meetup",
		Short:         "Query the Meetup API",
		Long:          "Read your Meetup profile, search groups and list events and RSVPs from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Timeout < 0 {
				return NewExitError(ExitCommandError, "timeout must be >= 0")
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log client activity to stderr")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.Token, "token", "", "access token (overrides the token database and "+TokenEnv+")")
	flags.StringVar(&opts.TokenDB, "token-db", "", "sqlite DSN of the token database")
	flags.StringVar(&opts.Account, "account", "", "token database account (default \"default\")")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "request timeout (default from config, 30s)")

	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewGroupsCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewRSVPsCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}
