package middleware

import (
	"time"

	"purchase-orders-backend/token"

	"github.com/redis/go-redis/v9"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour
)

// AppContext bundles the dependencies of the auth middleware.
type AppContext struct {
	PasetoMaker   token.Maker
	RedisClient   *redis.Client
	CookieDomain  string
	SecureCookies bool
}
