package caff

import "encoding/binary"

// ciffBytes builds a CIFF record with the given declared fields. pad extra
// header bytes are inserted after the fixed fields and counted in header_size.
func ciffBytes(contentSize, width, height uint64, pad int, pixels []byte) []byte {
	b := []byte(MagicCIFF)
	b = binary.LittleEndian.AppendUint64(b, uint64(CIFFMinHeaderSize+pad))
	b = binary.LittleEndian.AppendUint64(b, contentSize)
	b = binary.LittleEndian.AppendUint64(b, width)
	b = binary.LittleEndian.AppendUint64(b, height)
	b = append(b, make([]byte, pad)...)
	return append(b, pixels...)
}

func rgb(width, height int) []byte {
	px := make([]byte, width*height*3)
	for i := range px {
		px[i] = byte(i * 7)
	}
	return px
}

func validCIFF(width, height int) []byte {
	return ciffBytes(uint64(width*height*3), uint64(width), uint64(height), 0, rgb(width, height))
}

func block(id BlockID, payload []byte) []byte {
	return blockWithLength(id, uint64(len(payload)), payload)
}

func blockWithLength(id BlockID, length uint64, payload []byte) []byte {
	b := []byte{byte(id)}
	b = binary.LittleEndian.AppendUint64(b, length)
	return append(b, payload...)
}

func headerPayload(numAnim uint64) []byte {
	b := []byte(MagicCAFF)
	b = binary.LittleEndian.AppendUint64(b, HeaderSize)
	return binary.LittleEndian.AppendUint64(b, numAnim)
}

func creditsPayload(year uint16, month, day, hour, minute uint8, creator string) []byte {
	b := binary.LittleEndian.AppendUint16(nil, year)
	b = append(b, month, day, hour, minute)
	b = binary.LittleEndian.AppendUint64(b, uint64(len(creator)))
	return append(b, creator...)
}

func animationPayload(duration uint64, ciff []byte) []byte {
	b := binary.LittleEndian.AppendUint64(nil, duration)
	return append(b, ciff...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
