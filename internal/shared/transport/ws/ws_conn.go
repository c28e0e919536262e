package ws

type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 一条客户端连接，属性用于挂载鉴权后的身份。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done 用于感知连接生命周期结束（连接关闭时该 channel 会被关闭）
	Done() <-chan struct{}
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

const (
	HeartbeatMsg = "heartbeat"
	// ConnKeyPlayer 鉴权通过后的玩家 id
	ConnKeyPlayer = "player_id"
)
