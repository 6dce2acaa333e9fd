// Package core contains the Meetup data-access contracts, domain records and
// the credential-gated dispatch pipeline. Transport implementations live in
// the transport package; core must not depend on them.
package core
