package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-meetup/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// DefaultAccount is used when callers pass a blank account name.
const DefaultAccount = "default"

// ErrTokenNotFound is returned by Latest when the account has no active token.
var ErrTokenNotFound = goerrors.New("sqlstore: access token not found", goerrors.CategoryNotFound)

type TokenStoreOption func(*TokenStore)

// WithClock overrides the time source used for timestamps and expiry checks.
func WithClock(now func() time.Time) TokenStoreOption {
	return func(s *TokenStore) {
		if now != nil {
			s.now = now
		}
	}
}

// TokenStore keeps one active access token per account. Saving a token
// revokes the previous one.
type TokenStore struct {
	db   *bun.DB
	repo repository.Repository[*accessTokenRecord]
	now  func() time.Time
}

// NewTokenStore accepts a *bun.DB or anything exposing DB() *bun.DB, such as
// a persistence client.
func NewTokenStore(persistenceClient any, opts ...TokenStoreOption) (*TokenStore, error) {
	db, err := resolveBunDB(persistenceClient)
	if err != nil {
		return nil, err
	}
	repo := repository.NewRepository[*accessTokenRecord](db, accessTokenHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid access token repository wiring: %w", err)
		}
	}
	store := &TokenStore{
		db:   db,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// EnsureSchema creates the token table when it does not exist. Deployments
// that run the migrations package do not need it.
func (s *TokenStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	_, err := s.db.NewCreateTable().
		Model((*accessTokenRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Save stores token as the active token for account. A zero expiresAt means
// the token does not expire.
func (s *TokenStore) Save(ctx context.Context, account string, token string, expiresAt time.Time) (AccessToken, error) {
	if s == nil || s.repo == nil || s.db == nil {
		return AccessToken{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	account = normalizeAccount(account)
	if strings.TrimSpace(token) == "" {
		return AccessToken{}, goerrors.NewValidation("access token is required",
			goerrors.FieldError{Field: "token", Message: "must not be empty"},
		)
	}
	now := s.now()

	var saved AccessToken
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, updateErr := tx.NewUpdate().
			Model((*accessTokenRecord)(nil)).
			Set("revoked_at = ?", now).
			Set("updated_at = ?", now).
			Where("account = ?", account).
			Where("revoked_at IS NULL").
			Exec(ctx)
		if updateErr != nil {
			return updateErr
		}

		created, createErr := s.repo.CreateTx(ctx, tx, newAccessTokenRecord(account, token, expiresAt, now))
		if createErr != nil {
			return createErr
		}
		saved = created.toDomain()
		return nil
	})
	if err != nil {
		return AccessToken{}, err
	}
	return saved, nil
}

// Latest returns the active token for account, expired or not.
func (s *TokenStore) Latest(ctx context.Context, account string) (AccessToken, error) {
	if s == nil || s.repo == nil {
		return AccessToken{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("account", "=", normalizeAccount(account)),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.revoked_at IS NULL")
		}),
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return AccessToken{}, err
	}
	if len(records) == 0 {
		return AccessToken{}, ErrTokenNotFound
	}
	return records[0].toDomain(), nil
}

// Revoke marks the active token for account revoked and reports how many
// rows changed.
func (s *TokenStore) Revoke(ctx context.Context, account string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: token store is not configured")
	}
	now := s.now()
	res, err := s.db.NewUpdate().
		Model((*accessTokenRecord)(nil)).
		Set("revoked_at = ?", now).
		Set("updated_at = ?", now).
		Where("account = ?", normalizeAccount(account)).
		Where("revoked_at IS NULL").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Provider exposes the account's active token as a core.CredentialProvider.
// A missing or expired token reads as core.ErrCredentialMissing.
func (s *TokenStore) Provider(account string) core.CredentialProvider {
	account = normalizeAccount(account)
	return core.CredentialFunc(func(ctx context.Context) (string, error) {
		if s == nil {
			return "", core.ErrCredentialMissing
		}
		token, err := s.Latest(ctx, account)
		if errors.Is(err, ErrTokenNotFound) {
			return "", core.ErrCredentialMissing
		}
		if err != nil {
			return "", err
		}
		if token.Expired(s.now()) {
			return "", core.ErrCredentialMissing
		}
		return token.Token, nil
	})
}

func normalizeAccount(account string) string {
	account = strings.TrimSpace(account)
	if account == "" {
		return DefaultAccount
	}
	return account
}
