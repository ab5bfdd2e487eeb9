package frame

import (
	"encoding/binary"

	"github.com/wippyai/wasmpkg/errors"
)

// Payload locates the container inside raw frame bytes using the trailing
// dataLen word. No WebAssembly parsing is involved.
func Payload(frame []byte) ([]byte, error) {
	if len(frame) < TrailerSize {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, 0, TrailerSize, len(frame))
	}
	dataLen := binary.LittleEndian.Uint32(frame[len(frame)-TrailerSize:])
	if dataLen < TrailerSize || uint64(dataLen) > uint64(len(frame)) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(dataLen).
			Detail("trailing length %d does not fit frame of %d bytes", dataLen, len(frame)).
			Build()
	}
	return frame[len(frame)-int(dataLen) : len(frame)-TrailerSize], nil
}
