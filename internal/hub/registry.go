package hub

import "sync"

// Registry 维护所有存活连接的集合，纯粹的记账，不含任何策略。
// 所有操作都是单次加锁的原子操作，迭代通过快照完成，
// 并发变更不会影响正在进行的广播遍历。
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry 创建一个空的连接注册表
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Register 将客户端加入存活集合，幂等。
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
}

// Unregister 将客户端移出存活集合，幂等。
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c.ID)
}

// All 返回当前存活连接的快照切片，供广播迭代使用。
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

// FindByID 按连接 ID 查找客户端，未注册或已关闭返回 nil。
func (r *Registry) FindByID(connID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[connID]
}

// Count 返回当前存活连接数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
