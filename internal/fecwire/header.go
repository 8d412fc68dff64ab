package fecwire

import (
	"encoding/binary"
)

// Version of the block framing.
const Version uint8 = 1

// BlockHeader frames one codeword (or estimate) on the decode service's
// stream protocol. Payload bits are packed LSB-first into PayloadLen bytes.
type BlockHeader struct {
	Version    uint8
	Flags      uint8 // reserved
	BlockID    uint16
	N          uint16 // codeword bits
	K          uint16 // message bits
	PayloadLen uint32 // packed payload bytes
}

const HeaderLen = 1 + 1 + 2 + 2 + 2 + 4

func (h *BlockHeader) MarshalBinary(b []byte) []byte {
	if len(b) < HeaderLen {
		b = make([]byte, HeaderLen)
	}
	b[0] = h.Version
	b[1] = h.Flags
	binary.LittleEndian.PutUint16(b[2:4], h.BlockID)
	binary.LittleEndian.PutUint16(b[4:6], h.N)
	binary.LittleEndian.PutUint16(b[6:8], h.K)
	binary.LittleEndian.PutUint32(b[8:12], h.PayloadLen)
	return b[:HeaderLen]
}

func (h *BlockHeader) UnmarshalBinary(b []byte) bool {
	if len(b) < HeaderLen {
		return false
	}
	h.Version = b[0]
	h.Flags = b[1]
	h.BlockID = binary.LittleEndian.Uint16(b[2:4])
	h.N = binary.LittleEndian.Uint16(b[4:6])
	h.K = binary.LittleEndian.Uint16(b[6:8])
	h.PayloadLen = binary.LittleEndian.Uint32(b[8:12])
	return true
}
