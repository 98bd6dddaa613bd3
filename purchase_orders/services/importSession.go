package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long an uploaded file stays committable after preview.
const SessionTTL = time.Hour

var ErrSessionNotFound = errors.New("يرجى اختيار ملف صالح أولاً")

// ErrSessionInProgress is returned when another commit already claimed the upload.
var ErrSessionInProgress = errors.New("جاري استيراد هذا الملف بالفعل")

// ImportSession remembers an uploaded file between preview and commit.
type ImportSession struct {
	ID               string       `json:"id"`
	FileName         string       `json:"file_name"`
	StoredName       string       `json:"stored_name"`
	FileHash         string       `json:"file_hash"`
	Format           ImportFormat `json:"format"`
	Size             int64        `json:"size"`
	TotalRows        int          `json:"total_rows"`
	PreviewCount     int          `json:"preview_count"`
	ValidationErrors int          `json:"validation_errors"`
	CreatedBy        string       `json:"created_by"`
	CreatedAt        time.Time    `json:"created_at"`
}

type SessionStore interface {
	SaveSession(ctx context.Context, session *ImportSession) error
	GetSession(ctx context.Context, id string) (*ImportSession, error)
	// ClaimSession removes and returns the session in one step, so only one
	// caller can commit it.
	ClaimSession(ctx context.Context, id string) (*ImportSession, error)
}

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: SessionTTL}
}

func sessionKey(id string) string { return "import_session:" + id }

func (s *RedisSessionStore) SaveSession(ctx context.Context, session *ImportSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save import session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (*ImportSession, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	return decodeSession(raw, err)
}

func (s *RedisSessionStore) ClaimSession(ctx context.Context, id string) (*ImportSession, error) {
	raw, err := s.rdb.GetDel(ctx, sessionKey(id)).Bytes()
	return decodeSession(raw, err)
}

func decodeSession(raw []byte, err error) (*ImportSession, error) {
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load import session: %w", err)
	}
	var session ImportSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode import session: %w", err)
	}
	return &session, nil
}
