package core

import (
	"net/url"
	"strconv"
	"strings"
)

type EndpointKind string

const (
	EndpointProfile     EndpointKind = "profile"
	EndpointGroupSearch EndpointKind = "group_search"
	EndpointEvents      EndpointKind = "events"
	EndpointRSVPs       EndpointKind = "rsvps"
)

const (
	profilePath     = "/2/member/self"
	groupSearchPath = "/find/groups"
	eventsPageSize  = 20
)

type QueryParam struct {
	Key   string
	Value string
}

// Endpoint is the request target of one operation before dispatch.
type Endpoint struct {
	Kind    EndpointKind
	Path    string
	Query   []QueryParam
	Headers map[string]string
}

// GroupSearch holds the optional inputs of a group search.
type GroupSearch struct {
	ZipCode *string
	Text    *string
}

// String returns a pointer to value, for optional request fields.
func String(value string) *string {
	return &value
}

func ProfileEndpoint() Endpoint {
	return Endpoint{
		Kind:    EndpointProfile,
		Path:    profilePath,
		Headers: defaultEndpointHeaders(),
	}
}

// GroupSearchEndpoint keeps the zip and text keys with empty values when the
// inputs are absent unless policy is SearchParamsOmitEmpty.
func GroupSearchEndpoint(search GroupSearch, policy SearchParamsPolicy) Endpoint {
	query := publicQuery()
	for _, param := range []struct {
		key   string
		value *string
	}{
		{key: "zip", value: search.ZipCode},
		{key: "text", value: search.Text},
	} {
		if param.value == nil && policy == SearchParamsOmitEmpty {
			continue
		}
		value := ""
		if param.value != nil {
			value = *param.value
		}
		query = append(query, QueryParam{Key: param.key, Value: value})
	}
	return Endpoint{
		Kind:    EndpointGroupSearch,
		Path:    groupSearchPath,
		Query:   query,
		Headers: defaultEndpointHeaders(),
	}
}

func EventsEndpoint(groupURLName string) Endpoint {
	return Endpoint{
		Kind:    EndpointEvents,
		Path:    "/" + url.PathEscape(strings.TrimSpace(groupURLName)) + "/events",
		Query:   append(publicQuery(), QueryParam{Key: "page", Value: strconv.Itoa(eventsPageSize)}),
		Headers: defaultEndpointHeaders(),
	}
}

func RSVPsEndpoint(eventID string, groupURLName string) Endpoint {
	return Endpoint{
		Kind: EndpointRSVPs,
		Path: "/" + url.PathEscape(strings.TrimSpace(groupURLName)) +
			"/events/" + url.PathEscape(strings.TrimSpace(eventID)) + "/rsvps",
		Query:   publicQuery(),
		Headers: defaultEndpointHeaders(),
	}
}

// RawQuery encodes the query parameters in declaration order.
func (e Endpoint) RawQuery() string {
	if len(e.Query) == 0 {
		return ""
	}
	var b strings.Builder
	for index, param := range e.Query {
		if index > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// URL joins the endpoint onto baseURL (scheme and host, optionally a path
// prefix).
func (e Endpoint) URL(baseURL string) string {
	target := strings.TrimRight(strings.TrimSpace(baseURL), "/") + e.Path
	if query := e.RawQuery(); query != "" {
		target += "?" + query
	}
	return target
}

func publicQuery() []QueryParam {
	return []QueryParam{
		{Key: "sign", Value: "true"},
		{Key: "photo-host", Value: "public"},
	}
}

func defaultEndpointHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}
