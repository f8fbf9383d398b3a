package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec 以encoding/json编解码普通Go结构体，替换connect内置的protojson编解码器
type jsonCodec struct{}

// Codec 客户端与服务端共用的JSON编解码器
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
