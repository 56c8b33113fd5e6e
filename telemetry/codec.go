package telemetry

import (
	"bytes"
	"github.com/fxamacker/cbor/v2"
	"github.com/json-iterator/go"
	"github.com/juju/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack"
	"strconv"
	"sync/atomic"
	"time"
)

const (
	MSGPACK = "msgpack"
	CBOR    = "cbor"
	ZSTD    = "zstd"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Key   []byte
	Value []byte
}

// Encoder turns messages into packets. It is safe for concurrent use.
type Encoder struct {
	namespace string
	codec     string
	zstd      *zstd.Encoder
	sequence  atomic.Uint64
}

func NewEncoder(namespace, codec, compression string) (*Encoder, error) {
	e := &Encoder{namespace: namespace, codec: codec}
	switch codec {
	case "":
		e.codec = MSGPACK
	case MSGPACK, CBOR:
	default:
		return nil, errors.NotSupportedf("telemetry codec %q", codec)
	}
	switch compression {
	case "", "none":
	case ZSTD:
		var err error
		e.zstd, err = zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.Annotate(err, "unable to create zstd encoder")
		}
	default:
		return nil, errors.NotSupportedf("telemetry compression %q", compression)
	}
	return e, nil
}

func (e *Encoder) Encode(msg Message) (*Packet, error) {
	payload := make(map[string]interface{}, len(msg.Fields)+2)
	for k, v := range msg.Fields {
		payload[k] = v
	}
	payload["msg"] = msg.Msg
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload["ts"] = ts.UnixNano()
	value, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to marshal %s payload", msg.Msg)
	}

	var key bytes.Buffer
	key.WriteString(e.namespace)
	key.WriteByte('_')
	key.WriteString(msg.Msg)
	key.WriteByte('_')
	key.WriteString(strconv.FormatUint(e.sequence.Add(1), 10))

	env := &envelope{Key: key.Bytes(), Value: value}
	var frame []byte
	if e.codec == CBOR {
		frame, err = cbor.Marshal(env)
	} else {
		frame, err = msgpack.Marshal(env)
	}
	if err != nil {
		return nil, errors.Annotate(err, "unable to encode envelope")
	}
	if e.zstd != nil {
		frame = e.zstd.EncodeAll(frame, nil)
	}
	return &Packet{Key: env.Key, Value: value, Frame: frame}, nil
}

// DecodeFrame reverses the envelope encoding of a frame produced with the
// same codec and compression.
func DecodeFrame(frame []byte, codec, compression string) (key, value []byte, err error) {
	if compression == ZSTD {
		decoder, derr := zstd.NewReader(nil)
		if derr != nil {
			return nil, nil, errors.Trace(derr)
		}
		defer decoder.Close()
		frame, err = decoder.DecodeAll(frame, nil)
		if err != nil {
			return nil, nil, errors.Annotate(err, "unable to decompress frame")
		}
	}
	env := envelope{}
	if codec == CBOR {
		err = cbor.Unmarshal(frame, &env)
	} else {
		err = msgpack.Unmarshal(frame, &env)
	}
	if err != nil {
		return nil, nil, errors.Annotate(err, "unable to decode envelope")
	}
	return env.Key, env.Value, nil
}
