package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goliatone/go-meetup/core"
	sqlstore "github.com/goliatone/go-meetup/store/sql"
)

const dateLayout = "2006-01-02 15:04 MST"

func renderUser(w io.Writer, user core.User) error {
	fmt.Fprintf(w, "%s (%d)\n", user.Name, user.ID)
	if place := joinNonEmpty(", ", user.City, user.State, user.Country); place != "" {
		fmt.Fprintf(w, "Location: %s\n", place)
	}
	fmt.Fprintf(w, "Joined:   %s\n", formatTime(user.Joined.Time))
	if user.Link != "" {
		fmt.Fprintf(w, "Link:     %s\n", user.Link)
	}
	if len(user.Topics) > 0 {
		names := make([]string, 0, len(user.Topics))
		for _, topic := range user.Topics {
			names = append(names, topic.Name)
		}
		fmt.Fprintf(w, "Topics:   %s\n", strings.Join(names, ", "))
	}
	return nil
}

func renderGroups(w io.Writer, groups []core.Group) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "No groups found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URLNAME\tNAME\tMEMBERS\tLOCATION")
	for _, group := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", group.URLName, group.Name, group.Members, joinNonEmpty(", ", group.City, group.Country))
	}
	return tw.Flush()
}

func renderEvents(w io.Writer, events []core.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No upcoming events.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tNAME\tYES")
	for _, event := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", event.ID, formatTime(event.Time.Time), event.Name, event.YesRSVPCount)
	}
	return tw.Flush()
}

func renderRSVPs(w io.Writer, rsvps []core.RSVP) error {
	if len(rsvps) == 0 {
		_, err := fmt.Fprintln(w, "No RSVPs.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESPONSE\tMEMBER\tGUESTS")
	for _, rsvp := range rsvps {
		member := "-"
		if rsvp.Member != nil && rsvp.Member.Name != "" {
			member = rsvp.Member.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", rsvp.Response, member, rsvp.Guests)
	}
	return tw.Flush()
}

// tokenView is the printable form of a stored token. The secret is masked.
type tokenView struct {
	ID        string     `json:"id"`
	Account   string     `json:"account"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Expired   bool       `json:"expired"`
}

func newTokenView(token sqlstore.AccessToken, now time.Time) tokenView {
	return tokenView{
		ID:        token.ID,
		Account:   token.Account,
		Token:     maskToken(token.Token),
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
		Expired:   token.Expired(now),
	}
}

func renderToken(w io.Writer, view tokenView) error {
	fmt.Fprintf(w, "Account: %s\n", view.Account)
	fmt.Fprintf(w, "Token:   %s\n", view.Token)
	expires := "never"
	if view.ExpiresAt != nil {
		expires = formatTime(*view.ExpiresAt)
		if view.Expired {
			expires += " (expired)"
		}
	}
	fmt.Fprintf(w, "Expires: %s\n", expires)
	_, err := fmt.Fprintf(w, "Saved:   %s\n", formatTime(view.CreatedAt))
	return err
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(dateLayout)
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return strings.Join(out, sep)
}
