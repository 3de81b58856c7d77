package aicontext

import (
	"context"
	"sync"
	"time"

	"novel-assistant/pkg/logger"
	"novel-assistant/pkg/metrics"
)

// DefaultSessionID 请求未携带会话头时使用的会话
const DefaultSessionID = "default"

type session struct {
	ctx      *Context
	lastSeen time.Time
}

// SessionStore 会话 ID 到 AI 项目上下文的映射，空闲超过 idleTTL 的会话被回收
type SessionStore struct {
	data    DataService
	log     *AuditLog
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore 创建会话存储，所有会话共享 log
func NewSessionStore(data DataService, log *AuditLog, idleTTL time.Duration) *SessionStore {
	if log == nil {
		log = NewAuditLog()
	}
	return &SessionStore{
		data:     data,
		log:      log,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// AuditLog 共享的操作日志
func (s *SessionStore) AuditLog() *AuditLog {
	return s.log
}

// Get 获取会话上下文，不存在时创建
func (s *SessionStore) Get(id string) *Context {
	if id == "" {
		id = DefaultSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, now) {
		sess = &session{ctx: NewContext(s.data, s.log)}
		s.sessions[id] = sess
	}
	sess.lastSeen = now
	metrics.AIActiveSessions.Set(float64(len(s.sessions)))
	return sess.ctx
}

// Remove 删除会话
func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	metrics.AIActiveSessions.Set(float64(len(s.sessions)))
}

// Len 当前会话数
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *session, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(sess.lastSeen) > s.idleTTL
}

// Sweep 回收空闲会话，返回回收数量
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			evicted++
		}
	}
	metrics.AIActiveSessions.Set(float64(len(s.sessions)))
	return evicted
}

// Run 定期回收空闲会话，直到 ctx 结束
func (s *SessionStore) Run(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	interval := s.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug(ctx, "evicted idle AI sessions", "count", n)
			}
		}
	}
}
