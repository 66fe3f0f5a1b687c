package extraction

import (
	"bytes"
	"encoding/json"
)

// bufferJSON is the structured-clone form of a byte buffer written by
// Node-style producers: {"type":"Buffer","data":[37,80,68,70,...]}.
type bufferJSON struct {
	Type string `json:"type"`
	Data []int  `json:"data"`
}

// DecodeBlob returns the PDF bytes held in a blob value. Raw bytes pass
// through; the {"type":"Buffer","data":[...]} JSON form is unpacked.
func DecodeBlob(value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, &Error{Cause: ErrEmptyBuffer}
	}

	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return value, nil
	}

	var buf bufferJSON
	if err := json.Unmarshal(trimmed, &buf); err != nil {
		return nil, &Error{Cause: ErrInvalidBlob}
	}
	if buf.Type != "Buffer" || buf.Data == nil {
		return nil, &Error{Cause: ErrInvalidBlob}
	}

	out := make([]byte, len(buf.Data))
	for i, b := range buf.Data {
		if b < 0 || b > 255 {
			return nil, fail("%w: byte %d out of range at %d", ErrInvalidBlob, b, i)
		}
		out[i] = byte(b)
	}

	if len(out) == 0 {
		return nil, &Error{Cause: ErrEmptyBuffer}
	}
	return out, nil
}
