package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/traincoach/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL = 24 * 7 * time.Hour

	sessionKeyPrefix = "traincoach-session||"
	tokensSetKey     = "traincoach-sessions"
)

var (
	ErrWrongUsername = errors.New("wrong username")
	ErrWrongPassword = errors.New("wrong password")
)

// Admin is the single account allowed to open web sessions.
type Admin struct {
	Username     string
	PasswordHash string
}

type Credentials struct {
	Username string
	Password string
}

type LoginSession struct {
	Token     string
	CreatedAt time.Time
}

type Service struct {
	mutex       sync.Mutex
	admin       *Admin
	ttl         time.Duration
	redisClient *redis.Client

	// RandStringFunc can be swapped in tests for deterministic tokens
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(admin *Admin, ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		admin:          admin,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, credentials Credentials, createdAt time.Time) (token string, err error) {
	if credentials.Username != as.admin.Username {
		return "", ErrWrongUsername
	}
	if !pkg.CheckPasswordHash(credentials.Password, as.admin.PasswordHash) {
		return "", ErrWrongPassword
	}

	as.mutex.Lock()
	defer as.mutex.Unlock()

	token, err = as.RandStringFunc(35)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	if err := as.redisClient.Set(ctx, sessionKey, createdAt.Unix(), 0).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	as.mutex.Lock()
	defer as.mutex.Unlock()

	sessionKey := sessionKeyPrefix + token
	removed, err := as.redisClient.Del(ctx, sessionKey).Result()
	if err != nil {
		return false, err
	}
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		log.Errorf("logout, remove token from tokens set: %s", err)
	}

	return removed > 0, nil
}

// ScanAndClean removes all sessions older than the service TTL. Meant to be
// called periodically from a maintenance goroutine.
func (as *Service) ScanAndClean(ctx context.Context) {
	as.mutex.Lock()
	defer as.mutex.Unlock()

	log.Debugf("auth service, scan and clean sessions ...")

	tokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("scan and clean sessions, get tokens: %s", err)
		return
	}

	cleaned := 0
	for _, token := range tokens {
		sessionKey := sessionKeyPrefix + token

		createdAtUnixStr, err := as.redisClient.Get(ctx, sessionKey).Result()
		if errors.Is(err, redis.Nil) {
			// session gone, drop the stale token too
			if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
				log.Errorf("scan and clean sessions, remove stale token: %s", err)
			}
			continue
		} else if err != nil {
			log.Errorf("scan and clean sessions, get session %s: %s", token, err)
			continue
		}

		createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
		if err != nil {
			log.Errorf("scan and clean sessions, parse created at [%s]: %s", createdAtUnixStr, err)
			continue
		}

		createdAt := time.Unix(createdAtUnix, 0)
		if time.Since(createdAt) < as.ttl {
			continue
		}

		if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("scan and clean sessions, delete session %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("scan and clean sessions, remove token: %s", err)
			continue
		}
		cleaned++
	}

	log.Debugf("auth service, scan and clean sessions done, removed: %d", cleaned)
}
