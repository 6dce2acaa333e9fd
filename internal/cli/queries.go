package cli

import (
	"context"
	"io"

	"github.com/goliatone/go-meetup/core"
	"github.com/spf13/cobra"
)

func NewProfileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the authenticated member profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				facade, err := s.facade(cmd, opts)
				if err != nil {
					return out.Failure(GetExitCode(err), err)
				}
				user, err := facade.FetchProfile(ctx)
				if err != nil {
					return out.Failure(ExitFailure, err)
				}
				return out.Success(user, func(w io.Writer) error { return renderUser(w, user) })
			})
		},
	}
}

type groupsFlags struct {
	zip  string
	text string
}

func NewGroupsCommand(opts *RootOptions) *cobra.Command {
	flags := &groupsFlags{}
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Search groups by zip code and text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search := core.GroupSearch{}
			if cmd.Flags().Changed("zip") {
				search.ZipCode = core.String(flags.zip)
			}
			if cmd.Flags().Changed("text") {
				search.Text = core.String(flags.text)
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				facade, err := s.facade(cmd, opts)
				if err != nil {
					return out.Failure(GetExitCode(err), err)
				}
				groups, err := facade.SearchGroups(ctx, search)
				if err != nil {
					return out.Failure(ExitFailure, err)
				}
				return out.Success(groups, func(w io.Writer) error { return renderGroups(w, groups) })
			})
		},
	}
	cmd.Flags().StringVar(&flags.zip, "zip", "", "zip code to search near")
	cmd.Flags().StringVar(&flags.text, "text", "", "free text to match")
	return cmd
}

func NewEventsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events <group-urlname>",
		Short: "List a group's events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				facade, err := s.facade(cmd, opts)
				if err != nil {
					return out.Failure(GetExitCode(err), err)
				}
				events, err := facade.ListEvents(ctx, args[0])
				if err != nil {
					return out.Failure(ExitFailure, err)
				}
				return out.Success(events, func(w io.Writer) error { return renderEvents(w, events) })
			})
		},
	}
}

func NewRSVPsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rsvps <group-urlname> <event-id>",
		Short: "List the RSVPs of an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				facade, err := s.facade(cmd, opts)
				if err != nil {
					return out.Failure(GetExitCode(err), err)
				}
				rsvps, err := facade.ListRSVPs(ctx, args[1], args[0])
				if err != nil {
					return out.Failure(ExitFailure, err)
				}
				return out.Success(rsvps, func(w io.Writer) error { return renderRSVPs(w, rsvps) })
			})
		},
	}
}
