package hub

import (
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roomCodePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6}$`)

func TestGenerateRoomCode_Alphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateRoomCode()
		assert.Regexp(t, roomCodePattern, code, "邀请码不应包含易混淆字符")
	}
}

func TestRoomManager_CreateAndFind(t *testing.T) {
	m := NewRoomManager()
	owner := newTestClient("owner")

	room := m.Create(owner)
	require.NotNil(t, room)
	assert.Regexp(t, roomCodePattern, room.Code)
	assert.NotEmpty(t, room.ID)

	// 房主从创建起就是已批准成员
	assert.True(t, room.IsOwner(owner.ID))
	assert.True(t, room.IsApproved(owner.ID))
	assert.Equal(t, 1, room.ApprovedCount())

	assert.Same(t, room, m.Find(room.Code))
	assert.Nil(t, m.Find("ZZZZZZ"))

	m.Delete(room.Code)
	assert.Nil(t, m.Find(room.Code))
	assert.Equal(t, 0, m.Count())
}

func TestRoom_PendingToApproved(t *testing.T) {
	m := NewRoomManager()
	owner := newTestClient("owner")
	joiner := newTestClient("joiner")
	room := m.Create(owner)

	room.AddPending(joiner, "alice")
	assert.True(t, room.IsPending(joiner.ID))
	assert.False(t, room.IsApproved(joiner.ID))
	assert.Equal(t, 1, room.PendingCount())

	approved, ok := room.Approve(joiner.ID)
	require.True(t, ok)
	assert.Same(t, joiner, approved)
	assert.True(t, room.IsApproved(joiner.ID))
	assert.False(t, room.IsPending(joiner.ID))
	assert.Equal(t, 2, room.ApprovedCount())
	assert.Equal(t, 0, room.PendingCount())

	// 已处理过的请求再次批准观察到"请求不存在"
	_, ok = room.Approve(joiner.ID)
	assert.False(t, ok)
}

func TestRoom_Reject(t *testing.T) {
	m := NewRoomManager()
	owner := newTestClient("owner")
	joiner := newTestClient("joiner")
	room := m.Create(owner)

	room.AddPending(joiner, "bob")
	rejected, ok := room.Reject(joiner.ID)
	require.True(t, ok)
	assert.Same(t, joiner, rejected)
	assert.False(t, room.IsPending(joiner.ID))
	assert.False(t, room.IsApproved(joiner.ID))

	// 拒绝后再批准同样失败
	_, ok = room.Approve(joiner.ID)
	assert.False(t, ok)
}

func TestRoom_ConcurrentApproveOnlyOnce(t *testing.T) {
	for i := 0; i < 50; i++ {
		m := NewRoomManager()
		owner := newTestClient("owner")
		joiner := newTestClient("joiner")
		room := m.Create(owner)
		room.AddPending(joiner, "carol")

		var successes int32
		var wg sync.WaitGroup
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok := room.Approve(joiner.ID); ok {
					atomic.AddInt32(&successes, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), successes, "并发批准只能成功一次")
		assert.Equal(t, 2, room.ApprovedCount())
	}
}

func TestRoom_ApprovedNotDemotedByJoin(t *testing.T) {
	m := NewRoomManager()
	owner := newTestClient("owner")
	room := m.Create(owner)

	// 已批准成员重复发起加入不会被降级回 Pending
	room.AddPending(owner, "owner")
	assert.True(t, room.IsApproved(owner.ID))
	assert.False(t, room.IsPending(owner.ID))
}

func TestRoom_BoardMirror(t *testing.T) {
	m := NewRoomManager()
	room := m.Create(newTestClient("owner"))

	room.SetBoardMirror(7, "Design", "{}")
	id, title, canvas := room.BoardMirror()
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "Design", title)
	assert.Equal(t, "{}", canvas)

	room.SetBoardCanvas(`{"v":2}`)
	room.SetBoardTitle("Design v2")
	_, title, canvas = room.BoardMirror()
	assert.Equal(t, "Design v2", title)
	assert.Equal(t, `{"v":2}`, canvas)

	room.ClearBoardMirror()
	id, title, canvas = room.BoardMirror()
	assert.Zero(t, id)
	assert.Empty(t, title)
	assert.Empty(t, canvas)
}
