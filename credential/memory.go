package credential

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore 内存凭据存储（测试与单进程部署）
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore 创建内存凭据存储
func NewMemoryStore(records ...Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record, len(records))}
	for _, r := range records {
		s.Put(r)
	}
	return s
}

// Put 写入或覆盖一条记录
func (s *MemoryStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = copyRecord(rec)
}

// Delete 删除记录
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// GetCredentialData implements Resolver.
func (s *MemoryStore) GetCredentialData(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copyRecord(rec), nil
}

func copyRecord(rec Record) Record {
	data := make(map[string]string, len(rec.Data))
	for k, v := range rec.Data {
		data[k] = v
	}
	rec.Data = data
	return rec
}
