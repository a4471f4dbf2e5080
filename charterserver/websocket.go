package charterserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rogpeppe/charter/chart"
	"github.com/rogpeppe/charter/collector"
)

const writeTimeout = 10 * time.Second

// StatusMessage is sent on the websocket whenever the
// collector status changes.
type StatusMessage struct {
	Kind   string           `json:"kind"`
	Status collector.Status `json:"status"`
}

// serveWebsocket serves the chart stream. The client is first sent
// the current contents of every chart and the current status, then
// every subsequent change.
func (h *Handler) serveWebsocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Infof("websocket upgrade failed: %v", err)
		return
	}
	if !h.addConn(conn) {
		conn.Close()
		return
	}
	defer h.removeConn(conn)
	s := &session{
		conn: conn,
		hub:  h.p.Hub,
	}
	s.run(h.p.Status)
}

func (h *Handler) addConn(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = true
	h.wg.Add(1)
	return true
}

func (h *Handler) removeConn(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	h.wg.Done()
}

// session holds a single websocket client connection.
type session struct {
	conn *websocket.Conn
	hub  *chart.Hub

	// writeMu serializes writes to conn.
	writeMu sync.Mutex
}

func (s *session) run(status *StatusValue) {
	defer s.conn.Close()
	msgs, seq := s.hub.Since(0)
	if err := s.writeChart(msgs); err != nil {
		return
	}
	if st, ok := status.Get(); ok {
		if err := s.writeStatus(st); err != nil {
			return
		}
	}
	hubw := s.hub.Watch(seq)
	statusw := status.watch()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer s.conn.Close()
		for hubw.Next() {
			msgs, seq = s.hub.Since(seq)
			if err := s.writeChart(msgs); err != nil {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		defer s.conn.Close()
		for statusw.Next() {
			st, ok := statusw.Value().(collector.Status)
			if !ok {
				continue
			}
			if err := s.writeStatus(st); err != nil {
				return
			}
		}
	}()
	// Incoming messages are ignored; reading is needed to
	// process control frames and to notice the client going away.
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			logger.Debugf("websocket closed: %v", err)
			break
		}
	}
	hubw.Close()
	statusw.Close()
	s.conn.Close()
	wg.Wait()
}

func (s *session) writeChart(msgs []chart.Message) error {
	for _, msg := range msgs {
		if err := s.write(msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) writeStatus(st collector.Status) error {
	return s.write(StatusMessage{
		Kind:   "status",
		Status: st,
	})
}

func (s *session) write(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(v); err != nil {
		logger.Debugf("cannot write websocket message: %v", err)
		return err
	}
	return nil
}
