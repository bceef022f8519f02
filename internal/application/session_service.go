package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

// ErrSessionStore is returned when a session cannot be written.
var ErrSessionStore = errors.New("session store unavailable")

// sessionLookupTimeout bounds the Redis read done on every page render.
const sessionLookupTimeout = 500 * time.Millisecond

// SessionService keeps one session hash per user in Redis and hands out a
// signed cookie token that points at it.
type SessionService struct {
	Redis  *redis.Client
	JWT    *helpers.JWTManager
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewSessionService(rdb *redis.Client, jwt *helpers.JWTManager, ttl time.Duration, logger *logrus.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{Redis: rdb, JWT: jwt, TTL: ttl, Logger: logger}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Start records a fresh session for u and returns the cookie token.
func (s *SessionService) Start(ctx context.Context, u *entity.User) (string, time.Time, error) {
	if s.Redis == nil {
		return "", time.Time{}, ErrSessionStore
	}
	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateSessionToken(u.ID, sid)
	if err != nil {
		helpers.LogError(s.Logger, "generate session token failed", err, logrus.Fields{"user_id": u.ID})
		return "", time.Time{}, err
	}

	key := sessionKey(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"image":      u.Image,
		"sid":        sid,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
		}
		return "", time.Time{}, errors.Join(ErrSessionStore, err)
	}
	return token, exp, nil
}

// Resolve maps a cookie token to the requester's session. A store error
// yields SessionLoading; anything that does not match a live session yields
// SessionUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) entity.Session {
	anon := entity.Session{Status: entity.SessionUnauthenticated}
	if token == "" || s.JWT == nil {
		return anon
	}
	claims, err := s.JWT.ParseSessionToken(token)
	if err != nil {
		return anon
	}
	if s.Redis == nil {
		return anon
	}

	c, cancel := context.WithTimeout(ctx, sessionLookupTimeout)
	defer cancel()
	data, err := s.Redis.HGetAll(c, sessionKey(claims.UserID)).Result()
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", claims.UserID).Warn("session lookup failed")
		}
		return entity.Session{Status: entity.SessionLoading}
	}
	if len(data) == 0 || data["sid"] != claims.SessionID {
		return anon
	}
	return entity.Session{
		Status:    entity.SessionAuthenticated,
		SessionID: claims.SessionID,
		UserID:    claims.UserID,
		Name:      data["name"],
		Email:     data["email"],
		Image:     data["image"],
	}
}

// End removes the session the token points at. Tokens for a rotated or
// missing session are ignored.
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" || s.JWT == nil || s.Redis == nil {
		return nil
	}
	claims, err := s.JWT.ParseSessionToken(token)
	if err != nil {
		return nil
	}
	key := sessionKey(claims.UserID)
	sid, err := s.Redis.HGet(ctx, key, "sid").Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if sid != claims.SessionID {
		return nil
	}
	return s.Redis.Del(ctx, key).Err()
}

// Revoke drops the user's session regardless of which token created it.
func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, sessionKey(userID)).Err()
}
