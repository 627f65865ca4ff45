package storage

import "sync"

type MemoryStorage struct {
	models map[int64]string
	mutex  sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		models: make(map[int64]string),
	}
}

func (m *MemoryStorage) GetModel(userId int64) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.models[userId], nil
}

func (m *MemoryStorage) SetModel(userId int64, model string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.models[userId] = model
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
