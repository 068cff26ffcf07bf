package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// conn 包一层写锁：gorilla 连接不允许并发写。
type conn struct {
	ws     *websocket.Conn
	userID uint
	mu     sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// Hub 持有当前存活连接的集合。连接在接入时鉴权一次，之后只做
// 无差别转发：任一连接收到的消息原样广播给所有连接（含发送方）。
// 单进程、无持久化、无跨进程顺序保证。
type Hub struct {
	mu    sync.Mutex
	conns map[*conn]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{conns: map[*conn]struct{}{}, log: log}
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Len 当前连接数。
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast 对集合快照逐个发送；发送失败的对端直接移出集合，
// 错误不回传给发送方。
func (h *Hub) Broadcast(msg json.RawMessage) {
	h.mu.Lock()
	snapshot := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		if err := c.writeJSON(msg); err != nil {
			h.log.Debug("dropping peer", zap.Uint("user_id", c.userID), zap.Error(err))
			h.remove(c)
			_ = c.ws.Close()
		}
	}
}

// Serve 注册连接并阻塞读循环，读到的每条 JSON 消息广播出去。
// 返回即注销；调用方负责关闭底层连接。
func (h *Hub) Serve(ws *websocket.Conn, userID uint) {
	c := &conn{ws: ws, userID: userID}
	h.add(c)
	defer h.remove(c)

	for {
		var msg json.RawMessage
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		h.Broadcast(msg)
	}
}
