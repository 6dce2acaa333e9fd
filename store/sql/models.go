package sqlstore

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const tokenTypeBearer = "bearer"

// AccessToken is one stored bearer token for an account.
type AccessToken struct {
	ID        string
	Account   string
	Token     string
	TokenType string
	ExpiresAt *time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (t AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

func (t AccessToken) Revoked() bool {
	return t.RevokedAt != nil
}

type accessTokenRecord struct {
	bun.BaseModel `bun:"table:meetup_access_tokens,alias:mat"`

	ID        string     `bun:"id,pk"`
	Account   string     `bun:"account,notnull"`
	Token     string     `bun:"token,notnull"`
	TokenType string     `bun:"token_type,notnull"`
	ExpiresAt *time.Time `bun:"expires_at,nullzero"`
	RevokedAt *time.Time `bun:"revoked_at,nullzero"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newAccessTokenRecord(account string, token string, expiresAt time.Time, now time.Time) *accessTokenRecord {
	record := &accessTokenRecord{
		ID:        uuid.NewString(),
		Account:   strings.TrimSpace(account),
		Token:     strings.TrimSpace(token),
		TokenType: tokenTypeBearer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !expiresAt.IsZero() {
		expires := expiresAt.UTC()
		record.ExpiresAt = &expires
	}
	return record
}

func (r *accessTokenRecord) toDomain() AccessToken {
	if r == nil {
		return AccessToken{}
	}
	return AccessToken{
		ID:        r.ID,
		Account:   r.Account,
		Token:     r.Token,
		TokenType: r.TokenType,
		ExpiresAt: copyTime(r.ExpiresAt),
		RevokedAt: copyTime(r.RevokedAt),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
