package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeConn 是 Conn 的内存实现，测试中不需要真实网络。
type fakeConn struct {
	mu     sync.Mutex
	closed bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error)    { select {} }
func (f *fakeConn) WriteMessage(int, []byte) error       { return nil }
func (f *fakeConn) SetReadLimit(int64)                   {}
func (f *fakeConn) SetReadDeadline(time.Time) error      { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error     { return nil }
func (f *fakeConn) SetPongHandler(func(string) error)    {}
func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newTestClient(id string) *Client {
	return &Client{
		ID:   id,
		conn: &fakeConn{},
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("conn-1")

	r.Register(c)
	assert.Equal(t, 1, r.Count())
	assert.Same(t, c, r.FindByID("conn-1"))

	// 重复注册幂等
	r.Register(c)
	assert.Equal(t, 1, r.Count())

	r.Unregister(c)
	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.FindByID("conn-1"))

	// 重复注销幂等
	r.Unregister(c)
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_AllSnapshot(t *testing.T) {
	r := NewRegistry()
	a := newTestClient("a")
	b := newTestClient("b")
	r.Register(a)
	r.Register(b)

	snapshot := r.All()
	assert.Len(t, snapshot, 2)

	// 快照不受后续变更影响
	r.Unregister(a)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ConcurrentMutationDuringIteration(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 100; i++ {
		r.Register(newTestClient(string(rune('a'+i%26)) + string(rune('0'+i/26))))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for range r.All() {
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			c := newTestClient("x")
			r.Register(c)
			r.Unregister(c)
		}
	}()
	wg.Wait()
}

func TestClient_TrySendAfterClose(t *testing.T) {
	c := newTestClient("conn-1")

	assert.True(t, c.TrySend([]byte(`{"type":"pong"}`)))

	c.closeSend()
	// 向已关闭的连接写入软失败，不 panic
	assert.False(t, c.TrySend([]byte(`{"type":"pong"}`)))

	// 重复关闭幂等
	c.closeSend()
}
