package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueueSize = 256
	writeWait    = 5 * time.Second
	// readWait 客户端至少这么久发一次心跳，否则断开
	readWait       = 60 * time.Second
	maxMessageSize = 64 << 10
)

// WsServer 一条连接的读写循环，帧为 JSON 文本。
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger) *WsServer {
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送。发送队列满时丢弃，慢连接不能拖住推送方。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(msg *WsMsgResp) {
	select {
	case <-s.done:
	case s.outChan <- msg:
	default:
		s.log.Warn("ws_server out queue full, drop", zap.String("name", msg.Body.Name), zap.String("remote", s.Addr()))
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprint(err)))
		}
		s.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(readWait))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Info("ws_server read msg end", zap.String("remote", s.Addr()), zap.Error(err))
			return
		}
		s.enqueue(s.handle(data))
	}
}

// handle 处理一帧请求，回包 Seq 与请求一致。
func (s *WsServer) handle(data []byte) *WsMsgResp {
	reqBody := ReqBody{}
	if err := json.Unmarshal(data, &reqBody); err != nil {
		s.log.Info("ws_server bad frame", zap.String("remote", s.Addr()), zap.Error(err))
		return &WsMsgResp{Body: &RespBody{Code: transport.InvalidParam, Msg: "帧格式有误"}}
	}

	resp := &WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
	switch {
	case reqBody.Name == HeartbeatMsg:
		h := &Heartbeat{}
		_ = mapstructure.Decode(reqBody.Msg, h)
		h.STime = time.Now().UnixMilli()
		resp.Body.Msg = h
	case s.router != nil:
		s.router.Dispatch(&WsMsgReq{Body: &reqBody, Conn: s}, resp)
	default:
		resp.Body.Code = transport.SystemError
	}
	return resp
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) {
	raw, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		s.log.Error("ws_server write error", zap.Error(err))
		s.Close()
	}
}
