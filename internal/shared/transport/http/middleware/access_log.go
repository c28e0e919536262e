package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/logx"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

// TraceHeader 客户端可带上自己的 trace id，便于串联前后端日志。
const TraceHeader = "X-Trace-Id"

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，并尽量从响应体中的 `code` 字段提取业务码。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		parent := c.Request.Context()
		if tid := c.GetHeader(TraceHeader); tid != "" {
			parent = tracex.WithTraceID(parent, tid)
		}
		ctx := transport.NewContextWithParent(parent, action)
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, tid)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		if bizCode, reason, ok := parseBizCode(bw.body.Bytes()); ok {
			transport.SetBizCode(ctx, transport.BizCode(bizCode))
			transport.SetErrorReason(ctx, reason)
		} else if c.Writer.Status() >= http.StatusBadRequest {
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		} else {
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}

		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, string, bool) {
	if len(body) == 0 {
		return 0, "", false
	}

	// 响应体格式：{"code":403, "reason":"NOT_YOUR_TURN", ...}
	var payload struct {
		Code   *int   `json:"code"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, "", false
	}
	if payload.Code == nil {
		return 0, "", false
	}
	return *payload.Code, payload.Reason, true
}
