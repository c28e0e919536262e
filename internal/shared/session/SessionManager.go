package session

import (
	"sync"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/ws"
)

// Manager 维护 (对局, 玩家) 与 ws 连接的绑定，推送时按对局或玩家找连接。
type Manager interface {
	Bind(matchID, playerID string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	GetConn(matchID, playerID string) (ws.WSConn, bool)
	GetPlayer(conn ws.WSConn) (Key, bool)
	Conns(matchID string) []ws.WSConn
}

// Key 一名玩家在一局里的身份。
type Key struct {
	MatchID  string
	PlayerID string
}

// PushReplaced 同一玩家在另一条连接上订阅时，旧连接收到的通知。
const PushReplaced = "session.replaced"

type SessMgr struct {
	sync.RWMutex
	key2conn map[Key]ws.WSConn
	conn2key map[ws.WSConn]Key
	watched  map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		key2conn: make(map[Key]ws.WSConn),
		conn2key: make(map[ws.WSConn]Key),
		watched:  make(map[ws.WSConn]struct{}),
	}
}

// Bind 一条连接只订阅一局；重复绑定会替换旧连接。
func (s *SessMgr) Bind(matchID, playerID string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	key := Key{MatchID: matchID, PlayerID: playerID}

	s.Lock()
	// 每条连接只启动一次 watcher：连接关闭后自动解绑
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}
	if prev, ok := s.conn2key[conn]; ok && prev != key && s.key2conn[prev] == conn {
		delete(s.key2conn, prev)
	}
	old := s.key2conn[key]
	s.key2conn[key] = conn
	s.conn2key[conn] = key
	if old == conn {
		old = nil
	}
	if old != nil {
		delete(s.conn2key, old)
	}
	s.Unlock()

	// 踢掉原来的那个，锁外推送避免阻塞
	if old != nil {
		old.Push(PushReplaced, map[string]string{"match_id": matchID})
	}
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	key, ok := s.conn2key[conn]
	delete(s.watched, conn)
	delete(s.conn2key, conn)
	if ok && s.key2conn[key] == conn {
		delete(s.key2conn, key)
	}
}

func (s *SessMgr) GetConn(matchID, playerID string) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.key2conn[Key{MatchID: matchID, PlayerID: playerID}]
	return conn, ok
}

func (s *SessMgr) GetPlayer(conn ws.WSConn) (Key, bool) {
	s.RLock()
	defer s.RUnlock()
	key, ok := s.conn2key[conn]
	return key, ok
}

// Conns 订阅了该对局的所有连接。
func (s *SessMgr) Conns(matchID string) []ws.WSConn {
	s.RLock()
	defer s.RUnlock()
	var out []ws.WSConn
	for key, conn := range s.key2conn {
		if key.MatchID == matchID {
			out = append(out, conn)
		}
	}
	return out
}
