package core

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDecode_Profile(t *testing.T) {
	user, err := Decode[User]([]byte(profileJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Joined.UnixMilli() != 1500000000000 {
		t.Fatalf("expected millisecond precision, got %d", user.Joined.UnixMilli())
	}
	if user.Joined.Location() != time.UTC {
		t.Fatalf("expected utc timestamps")
	}
	if user.Visited != nil {
		t.Fatalf("expected absent optional date to stay nil")
	}
	if len(user.Topics) != 1 || user.Topics[0].Name != "Go" {
		t.Fatalf("unexpected topics %#v", user.Topics)
	}
}

func TestDecode_Faults(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		decode  func([]byte) error
		contain string
	}{
		{name: "empty body", body: "  ", decode: decodeUser, contain: "empty"},
		{name: "null body", body: "null", decode: decodeUser, contain: "null"},
		{name: "invalid json", body: "{", decode: decodeUser, contain: "malformed"},
		{name: "array for object", body: "[]", decode: decodeUser, contain: "expected an object but found an array"},
		{name: "object for array", body: `{"id":1}`, decode: decodeEvents, contain: "expected an array but found an object"},
		{name: "number for object", body: `12`, decode: decodeUser, contain: "expected an object but found a number"},
		{name: "string date", body: `{"id":1,"name":"a","joined":"yesterday"}`, decode: decodeUser, contain: "milliseconds"},
		{name: "missing required date", body: `{"id":1,"name":"a"}`, decode: decodeUser, contain: `"joined" is required`},
		{name: "missing item field", body: `[{"id":"e1","name":"x","time":1},{"id":"e2","time":1}]`, decode: decodeEvents, contain: `item 1: field "name" is required`},
		{name: "nested required id", body: `[{"id":"e1","name":"x","time":1,"group":{"name":"g"}}]`, decode: decodeEvents, contain: `group.id`},
		{name: "rsvp without response", body: `[{"guests":1}]`, decode: decodeRSVPs, contain: `"response" is required`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.decode([]byte(tc.body))
			if err == nil {
				t.Fatalf("expected decode fault")
			}
			fault, ok := err.(*DecodeFault)
			if !ok {
				t.Fatalf("expected *DecodeFault, got %T", err)
			}
			if !strings.Contains(fault.Description, tc.contain) {
				t.Fatalf("expected description containing %q, got %q", tc.contain, fault.Description)
			}
		})
	}
}

func TestDecode_EpochTimeIsPresent(t *testing.T) {
	events, err := Decode[[]Event]([]byte(`[{"id":"e","name":"n","time":0}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 || events[0].Time.UnixMilli() != 0 || events[0].Time.IsZero() {
		t.Fatalf("expected epoch instant, got %#v", events)
	}

	user, err := Decode[User]([]byte(`{"id":1,"name":"a","joined":0}`))
	if err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if !user.Joined.Equal(time.Unix(0, 0)) {
		t.Fatalf("expected epoch join date, got %v", user.Joined)
	}
}

func TestDecode_ReencodeRoundTrips(t *testing.T) {
	cases := []struct {
		name  string
		check func(t *testing.T)
	}{
		{name: "profile", check: func(t *testing.T) { assertRoundTrip[User](t, profileJSON) }},
		{name: "profile with empty topics", check: func(t *testing.T) {
			assertRoundTrip[User](t, `{"id":3,"name":"Lin","joined":0,"topics":[],"birthday":{"day":1,"month":2}}`)
		}},
		{name: "profile without topics", check: func(t *testing.T) {
			assertRoundTrip[User](t, `{"id":4,"name":"Kim","joined":1500000000000,"lat":38.72,"lon":-9.14}`)
		}},
		{name: "groups", check: func(t *testing.T) {
			assertRoundTrip[[]Group](t, `[
				{"id":1,"name":"Gophers","urlname":"gophers","members":12,"created":1400000000000,
				 "organizer":{"id":9,"name":"Rob"},"category":{"id":34,"name":"Tech"},
				 "next_event":{"id":"e9","name":"Night","time":1600000000000,"yes_rsvp_count":4}},
				{"id":2,"name":"Rustaceans","urlname":"rust","lat":51.5,"lon":-0.12}
			]`)
		}},
		{name: "empty groups", check: func(t *testing.T) { assertRoundTrip[[]Group](t, `[]`) }},
		{name: "events", check: func(t *testing.T) {
			assertRoundTrip[[]Event](t, `[
				{"id":"e1","name":"Epoch party","time":0,"utc_offset":3600000,
				 "venue":{"id":5,"name":"Hall","city":"Porto"},"group":{"id":1,"name":"Gophers","urlname":"gophers"}},
				{"id":"e2","name":"Later","time":1700000000000,"created":1690000000000,"member_pay_fee":true}
			]`)
		}},
		{name: "rsvps", check: func(t *testing.T) {
			assertRoundTrip[[]RSVP](t, `[
				{"response":"yes","guests":2,"created":1500000000000,
				 "member":{"id":8,"name":"Grace","event_context":{"host":false}},
				 "event":{"id":"e1","name":"Night"}},
				{"response":"no"}
			]`)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, tc.check)
	}
}

func assertRoundTrip[T Decodable](t *testing.T, body string) {
	t.Helper()
	first, err := Decode[T]([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Decode[T](encoded)
	if err != nil {
		t.Fatalf("decode re-encoded %s: %v", encoded, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("round trip mismatch\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

func TestDecode_EmptyArrayIsValid(t *testing.T) {
	groups, err := Decode[[]Group]([]byte(`[]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", groups)
	}
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := NewTimestamp(1234)
	raw, err := ts.MarshalJSON()
	if err != nil || string(raw) != "1234" {
		t.Fatalf("expected 1234, got %q (%v)", raw, err)
	}
	raw, _ = Timestamp{}.MarshalJSON()
	if string(raw) != "null" {
		t.Fatalf("expected zero timestamp to encode as null, got %q", raw)
	}
}

func decodeUser(data []byte) error {
	_, err := Decode[User](data)
	return err
}

func decodeEvents(data []byte) error {
	_, err := Decode[[]Event](data)
	return err
}

func decodeRSVPs(data []byte) error {
	_, err := Decode[[]RSVP](data)
	return err
}
