package wasm

// AppendLEB128u appends the unsigned LEB128 encoding of v to dst
func AppendLEB128u(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}
