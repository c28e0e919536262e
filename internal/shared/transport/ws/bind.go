package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// BindJSON 将 WsMsgReq.Body.Msg 解码到目标结构体，按 json 标签匹配字段，数字与字符串互转。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return errors.New("ws request msg is empty")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
