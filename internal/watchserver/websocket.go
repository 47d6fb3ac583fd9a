package watchserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn is a thin alias kept distinct from *websocket.Conn so the client
// map's key type is self-documenting at call sites.
type wsConn = websocket.Conn

// upgrader allows all origins; the watch server is intended for local,
// same-machine use (editors, terminal dashboards), not public exposure.
var upgrader = websocket.Upgrader{
	CheckOrigin:       func(_ *http.Request) bool { return true },
	EnableCompression: true,
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("failed to set read deadline", "err", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.logger.Info("client connected", "addr", conn.RemoteAddr())

	s.sendInitialStatus(conn)

	writeMu := s.registerClient(conn)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go s.clientReadPump(conn, done, &wg)
	go s.clientWritePump(conn, done, writeMu, &wg)
	wg.Wait()
}

func (s *Server) sendInitialStatus(conn *wsConn) {
	status, err := s.repo.Workflow.Status()
	if err != nil {
		s.logger.Error("failed to compute initial status", "err", err)
		return
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error("failed to set write deadline", "err", err)
		return
	}
	if err := conn.WriteJSON(status); err != nil {
		s.logger.Error("failed to send initial status", "err", err)
	}
}

func (s *Server) registerClient(conn *wsConn) *sync.Mutex {
	writeMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = writeMu
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Info("client registered", "total", count)
	return writeMu
}

func (s *Server) removeClient(conn *wsConn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
	}
}

func (s *Server) sendToAllClients(status interface{}) {
	s.clientsMu.RLock()
	snapshot := make(map[*wsConn]*sync.Mutex, len(s.clients))
	for conn, mu := range s.clients {
		snapshot[conn] = mu
	}
	s.clientsMu.RUnlock()

	var failed []*wsConn
	for conn, mu := range snapshot {
		mu.Lock()
		err := conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = conn.WriteJSON(status)
		}
		mu.Unlock()
		if err != nil {
			s.logger.Error("broadcast failed", "addr", conn.RemoteAddr(), "err", err)
			failed = append(failed, conn)
		}
	}

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
			_ = conn.Close()
		}
		s.clientsMu.Unlock()
	}
}

func (s *Server) clientReadPump(conn *wsConn, done chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("read error", "addr", conn.RemoteAddr(), "err", err)
			}
			return
		}
	}
}

func (s *Server) clientWritePump(conn *wsConn, done chan struct{}, writeMu *sync.Mutex, wg *sync.WaitGroup) {
	defer wg.Done()
	defer s.removeClient(conn)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			writeMu.Lock()
			err := conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err == nil {
				err = conn.WriteMessage(websocket.PingMessage, nil)
			}
			writeMu.Unlock()
			if err != nil {
				s.logger.Error("ping failed", "addr", conn.RemoteAddr(), "err", err)
				return
			}
		}
	}
}
