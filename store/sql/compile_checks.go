package sqlstore

import (
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

var _ interface {
	GetDebug() bool
	GetDriver() string
	GetServer() string
	GetPingTimeout() time.Duration
	GetOtelIdentifier() string
} = Config{}

var _ interface{ DB() *bun.DB } = (*persistence.Client)(nil)
