package ledger

import "sync"

type Memory struct {
	ReadErr  error
	WriteErr error

	mu    sync.Mutex
	fired map[Key]bool
}

func NewMemory() *Memory {
	return &Memory{fired: make(map[Key]bool)}
}

func (m *Memory) IsFired(key Key) (bool, error) {
	if m.ReadErr != nil {
		return false, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fired[key], nil
}

func (m *Memory) MarkFired(key Key) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired[key] = true
	return nil
}

func (m *Memory) MarkedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fired)
}
