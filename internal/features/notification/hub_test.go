package notification

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeConn trips overlapped if two WriteMessage calls ever run at once.
type fakeConn struct {
	writing    int32
	overlapped int32
	writes     int32
	failWrites bool
	closed     int32
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.StoreInt32(&c.overlapped, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.StoreInt32(&c.writing, 0)
	atomic.AddInt32(&c.writes, 1)
	if c.failWrites {
		return errors.New("broken pipe")
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *fakeConn) Close() error {
	atomic.StoreInt32(&c.closed, 1)
	return nil
}

func TestNotifySerializesWritesPerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &fakeConn{}
	hub.register("org-1", conn)

	const senders = 16
	var wg sync.WaitGroup
	wg.Add(senders)
	for i := 0; i < senders; i++ {
		go func() {
			defer wg.Done()
			hub.Notify("org-1", "import.done", map[string]interface{}{"ok": true})
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&conn.overlapped) == 1 {
		t.Fatal("two notifications wrote to the same connection concurrently")
	}
	if got := atomic.LoadInt32(&conn.writes); got != senders {
		t.Errorf("writes = %d, want %d", got, senders)
	}
}

func TestNotifyDropsFailedConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	broken := &fakeConn{failWrites: true}
	healthy := &fakeConn{}
	hub.register("org-1", broken)
	hub.register("org-1", healthy)

	hub.Notify("org-1", "import.analyzed", nil)

	if atomic.LoadInt32(&broken.closed) != 1 {
		t.Error("failed connection was not closed")
	}

	hub.Notify("org-1", "import.done", nil)
	if got := atomic.LoadInt32(&broken.writes); got != 1 {
		t.Errorf("failed connection still receives pushes, writes = %d", got)
	}
	if got := atomic.LoadInt32(&healthy.writes); got != 2 {
		t.Errorf("healthy connection writes = %d, want 2", got)
	}
}

func TestNotifyUnknownTenantIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Notify("nobody", "import.done", nil)
}
