package storage

import (
	"context"
	"errors"
	"io"
	"sync"
)

// MemStore 进程内对象存储，测试与本地开发用。
// FailPut/FailDelete 可注入故障。
type MemStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	FailPut    bool
	FailDelete bool
}

func NewMem() *MemStore {
	return &MemStore{objects: map[string][]byte{}}
}

func (m *MemStore) Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	if m.FailPut {
		return "", "", errors.New("put rejected")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	key := ObjectKey(filename)
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return key, "mem://" + key, nil
}

func (m *MemStore) Delete(ctx context.Context, key string) error {
	if m.FailDelete {
		return errors.New("delete rejected")
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
