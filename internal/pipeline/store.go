package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/scooter7/credo-etl/pkg/errors"
)

// DefaultSessionTTL 会话默认保留时长
const DefaultSessionTTL = 4 * time.Hour

// Store 会话快照存储
//
// Get 返回的是独立副本，调用方修改后需 Save 才会生效。
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

func encodeSession(s *Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("序列化会话失败: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("反序列化会话失败: %w", err)
	}
	return &s, nil
}

// ── 进程内存储 ──

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore 进程内会话存储（未配置 Redis 时使用）
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore 创建进程内存储；ttl <= 0 时使用 DefaultSessionTTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.ErrSessionNotFound
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, pkgerrors.ErrSessionExpired
	}
	return decodeSession(e.data)
}

// Save 写入快照并刷新过期时间
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[s.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return pkgerrors.ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

// Sweep 清理已过期的会话，返回清理数量
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// ── 会话写锁 ──

// Locks 按会话 ID 串行化阶段写入
type Locks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocks 创建会话锁表
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*lockEntry)}
}

// Lock 获取会话写锁，返回释放函数
func (l *Locks) Lock(id string) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
