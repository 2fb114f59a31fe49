package controllers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// User is one websocket connection streaming agent positions.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) readRequest() (*agentMatchRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &agentMatchRequest{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Serve. reads one frame, matches the agent position and writes the result back. a validation or
// query error is answered with an error envelope and keeps the connection open.
func (u *User) Serve() error {
	req, err := u.readRequest()
	if err != nil {
		u.conn.Close()
		return err
	}

	if req == nil {
		return nil
	}

	if err := u.hub.validator.Struct(req); err != nil {
		return u.writeError(http.StatusBadRequest, err)
	}

	resp := agentMatchResponse{AgentID: req.AgentID}
	if req.Frenet {
		res, err := u.hub.service.MatchFrenet(req.X, req.Y, req.TargetLaneID, req.MaxCells)
		if err != nil {
			return u.writeError(StatusCode(err), err)
		}
		fr := NewFrenetResponse(res)
		resp.Frenet = &fr
	} else {
		res, err := u.hub.service.Match(req.X, req.Y, req.TargetLaneID, req.MaxCells)
		if err != nil {
			return u.writeError(StatusCode(err), err)
		}
		mr := NewMatchResponse(res)
		resp.Match = &mr
	}
	return u.write(envelope{"data": resp})
}

func (u *User) writeError(status int, err error) error {
	return u.write(envelope{"error": map[string]string{
		"code":    http.StatusText(status),
		"message": err.Error(),
	}})
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub tracks the connected websocket users.
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	service   LaneMapService
	validator *requestValidator
}

func NewHub(service LaneMapService) *Hub {
	return &Hub{
		ns:        make(map[uint]*User),
		us:        make([]*User, 0),
		service:   service,
		validator: newRequestValidator(),
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

// Remove. unregisters user and closes its connection. removing an unknown user is a no-op.
func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	// users are appended in id order.
	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	user.conn.Close()
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}
