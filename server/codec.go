package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects how outbound messages are framed for one session
type Encoding int

const (
	EncodingJSON    Encoding = iota // text frames, the default
	EncodingMsgpack                 // binary frames
)

// ParseEncoding maps the ?enc= query value to an Encoding
func ParseEncoding(s string) Encoding {
	if s == "msgpack" {
		return EncodingMsgpack
	}
	return EncodingJSON
}

func (e Encoding) String() string {
	if e == EncodingMsgpack {
		return "msgpack"
	}
	return "json"
}

// Frame is one serialized outbound message ready for the socket
type Frame struct {
	Binary bool
	Data   []byte
}

// Encode serializes msg for the given encoding
func Encode(enc Encoding, msg Outbound) (Frame, error) {
	if msg == nil {
		return Frame{}, eris.New("encode nil message")
	}
	switch enc {
	case EncodingMsgpack:
		b, err := msgpack.Marshal(msg)
		if err != nil {
			return Frame{}, eris.Wrapf(err, "msgpack encode %T", msg)
		}
		return Frame{Binary: true, Data: b}, nil
	default:
		b, err := json.Marshal(msg)
		if err != nil {
			return Frame{}, eris.Wrapf(err, "json encode %T", msg)
		}
		return Frame{Data: b}, nil
	}
}

// frameCache encodes a broadcast message at most once per encoding
type frameCache struct {
	msg    Outbound
	frames [2]*Frame
}

func (c *frameCache) get(enc Encoding) (Frame, error) {
	if enc != EncodingMsgpack {
		enc = EncodingJSON
	}
	if f := c.frames[enc]; f != nil {
		return *f, nil
	}
	f, err := Encode(enc, c.msg)
	if err != nil {
		return Frame{}, err
	}
	c.frames[enc] = &f
	return f, nil
}
