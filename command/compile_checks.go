package command

import (
	gocmd "github.com/goliatone/go-command"
	sqlstore "github.com/goliatone/go-meetup/store/sql"
)

var (
	_ gocmd.Commander[SaveTokenMessage]   = (*SaveTokenCommand)(nil)
	_ gocmd.Commander[RevokeTokenMessage] = (*RevokeTokenCommand)(nil)

	_ TokenWriter = (*sqlstore.TokenStore)(nil)
)
