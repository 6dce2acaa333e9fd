package core

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is an instant encoded on the wire as integer milliseconds since
// the Unix epoch.
type Timestamp struct {
	time.Time
}

func NewTimestamp(ms int64) Timestamp {
	return Timestamp{Time: time.UnixMilli(ms).UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, t.UnixMilli(), 10), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp must be integer milliseconds since epoch, got %s", truncate(string(data), 32))
	}
	*t = NewTimestamp(ms)
	return nil
}

type Photo struct {
	ID          int64  `json:"photo_id,omitempty"`
	PhotoLink   string `json:"photo_link,omitempty"`
	HighresLink string `json:"highres_link,omitempty"`
	ThumbLink   string `json:"thumb_link,omitempty"`
	Type        string `json:"type,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
}

type Topic struct {
	ID     int64  `json:"id" validate:"required"`
	Name   string `json:"name,omitempty"`
	URLKey string `json:"urlkey,omitempty"`
}

// User is the authenticated member profile.
type User struct {
	ID       int64      `json:"id" validate:"required"`
	Name     string     `json:"name" validate:"required"`
	Bio      string     `json:"bio,omitempty"`
	Status   string     `json:"status,omitempty"`
	Link     string     `json:"link,omitempty"`
	City     string     `json:"city,omitempty"`
	State    string     `json:"state,omitempty"`
	Country  string     `json:"country,omitempty"`
	Lat      float64    `json:"lat,omitempty"`
	Lon      float64    `json:"lon,omitempty"`
	Joined   Timestamp  `json:"joined" validate:"required"`
	Visited  *Timestamp `json:"visited,omitempty"`
	Photo    *Photo     `json:"photo,omitempty"`
	Topics   []Topic    `json:"topics" validate:"omitempty,dive"`
	Birthday *Birthday  `json:"birthday,omitempty"`
}

type Birthday struct {
	Day   int `json:"day,omitempty"`
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

type Category struct {
	ID        int64  `json:"id" validate:"required"`
	Name      string `json:"name,omitempty"`
	ShortName string `json:"shortname,omitempty"`
	SortName  string `json:"sort_name,omitempty"`
}

type Organizer struct {
	ID    int64  `json:"id" validate:"required"`
	Name  string `json:"name,omitempty"`
	Bio   string `json:"bio,omitempty"`
	Photo *Photo `json:"photo,omitempty"`
}

// EventSummary is the abbreviated event embedded in groups and RSVPs.
type EventSummary struct {
	ID           string     `json:"id" validate:"required"`
	Name         string     `json:"name,omitempty"`
	YesRSVPCount int        `json:"yes_rsvp_count,omitempty"`
	Time         *Timestamp `json:"time,omitempty"`
	UTCOffset    int64      `json:"utc_offset,omitempty"`
}

type Group struct {
	ID                int64         `json:"id" validate:"required"`
	Name              string        `json:"name" validate:"required"`
	URLName           string        `json:"urlname" validate:"required"`
	Description       string        `json:"description,omitempty"`
	Link              string        `json:"link,omitempty"`
	Status            string        `json:"status,omitempty"`
	Created           *Timestamp    `json:"created,omitempty"`
	City              string        `json:"city,omitempty"`
	State             string        `json:"state,omitempty"`
	Country           string        `json:"country,omitempty"`
	LocalizedLocation string        `json:"localized_location,omitempty"`
	Lat               float64       `json:"lat,omitempty"`
	Lon               float64       `json:"lon,omitempty"`
	Members           int           `json:"members,omitempty"`
	Who               string        `json:"who,omitempty"`
	JoinMode          string        `json:"join_mode,omitempty"`
	Visibility        string        `json:"visibility,omitempty"`
	Organizer         *Organizer    `json:"organizer,omitempty"`
	Category          *Category     `json:"category,omitempty"`
	GroupPhoto        *Photo        `json:"group_photo,omitempty"`
	KeyPhoto          *Photo        `json:"key_photo,omitempty"`
	NextEvent         *EventSummary `json:"next_event,omitempty"`
}

// GroupSummary is the abbreviated group embedded in events and RSVPs.
type GroupSummary struct {
	ID       int64      `json:"id" validate:"required"`
	Name     string     `json:"name,omitempty"`
	URLName  string     `json:"urlname,omitempty"`
	Created  *Timestamp `json:"created,omitempty"`
	JoinMode string     `json:"join_mode,omitempty"`
	Who      string     `json:"who,omitempty"`
	Lat      float64    `json:"lat,omitempty"`
	Lon      float64    `json:"lon,omitempty"`
	Region   string     `json:"region,omitempty"`
	Timezone string     `json:"timezone,omitempty"`
}

type Venue struct {
	ID                   int64   `json:"id,omitempty"`
	Name                 string  `json:"name,omitempty"`
	Lat                  float64 `json:"lat,omitempty"`
	Lon                  float64 `json:"lon,omitempty"`
	Repinned             bool    `json:"repinned,omitempty"`
	Address1             string  `json:"address_1,omitempty"`
	Address2             string  `json:"address_2,omitempty"`
	City                 string  `json:"city,omitempty"`
	State                string  `json:"state,omitempty"`
	Zip                  string  `json:"zip,omitempty"`
	Country              string  `json:"country,omitempty"`
	LocalizedCountryName string  `json:"localized_country_name,omitempty"`
}

type Event struct {
	ID            string        `json:"id" validate:"required"`
	Name          string        `json:"name" validate:"required"`
	Status        string        `json:"status,omitempty"`
	Time          Timestamp     `json:"time" validate:"required"`
	Created       *Timestamp    `json:"created,omitempty"`
	Updated       *Timestamp    `json:"updated,omitempty"`
	Duration      int64         `json:"duration,omitempty"`
	UTCOffset     int64         `json:"utc_offset,omitempty"`
	LocalDate     string        `json:"local_date,omitempty"`
	LocalTime     string        `json:"local_time,omitempty"`
	WaitlistCount int           `json:"waitlist_count,omitempty"`
	YesRSVPCount  int           `json:"yes_rsvp_count,omitempty"`
	RSVPLimit     int           `json:"rsvp_limit,omitempty"`
	Link          string        `json:"link,omitempty"`
	Description   string        `json:"description,omitempty"`
	Visibility    string        `json:"visibility,omitempty"`
	MemberPayFee  bool          `json:"member_pay_fee,omitempty"`
	Venue         *Venue        `json:"venue,omitempty"`
	Group         *GroupSummary `json:"group,omitempty"`
}

type MemberEventContext struct {
	Host bool `json:"host"`
}

// Member is the RSVP author. Every field is optional on the wire.
type Member struct {
	ID           int64               `json:"id,omitempty"`
	Name         string              `json:"name,omitempty"`
	Bio          string              `json:"bio,omitempty"`
	Role         string              `json:"role,omitempty"`
	Photo        *Photo              `json:"photo,omitempty"`
	EventContext *MemberEventContext `json:"event_context,omitempty"`
}

type RSVP struct {
	Created  *Timestamp    `json:"created,omitempty"`
	Updated  *Timestamp    `json:"updated,omitempty"`
	Response string        `json:"response" validate:"required"`
	Guests   int           `json:"guests,omitempty"`
	Event    *EventSummary `json:"event,omitempty"`
	Group    *GroupSummary `json:"group,omitempty"`
	Member   *Member       `json:"member,omitempty"`
	Venue    *Venue        `json:"venue,omitempty"`
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
