package prs

// encoder packs control bits into bytes reserved in the output ahead of the
// data they describe, mirroring how the decompressor loads them.
type encoder struct {
	out     []byte
	ctrlIdx int
	bit     int
}

func (e *encoder) putBit(b byte) {
	if e.bit == 8 {
		e.ctrlIdx = len(e.out)
		e.out = append(e.out, 0)
		e.bit = 0
	}
	e.out[e.ctrlIdx] |= (b & 1) << e.bit
	e.bit++
}

func (e *encoder) literal(b byte) {
	e.putBit(1)
	e.out = append(e.out, b)
}

func (e *encoder) shortCopy(dist, length int) {
	n := length - 2
	e.putBit(0)
	e.putBit(0)
	e.putBit(byte(n >> 1))
	e.putBit(byte(n))
	e.out = append(e.out, byte(shortWindow-dist))
}

func (e *encoder) longCopy(dist, length int) {
	word := (0x2000 - dist) << 3
	if length <= 9 {
		word |= length - 2
	}
	e.putBit(0)
	e.putBit(1)
	e.out = append(e.out, byte(word), byte(word>>8))
	if length > 9 {
		e.out = append(e.out, byte(length-1))
	}
}

func (e *encoder) end() {
	e.putBit(0)
	e.putBit(1)
	e.out = append(e.out, 0, 0)
}

// longestMatch finds the longest earlier occurrence of src[pos:] within the
// long-copy window. Matches may overlap pos.
func longestMatch(src []byte, pos int) (dist, length int) {
	limit := len(src) - pos
	if limit > maxCopy {
		limit = maxCopy
	}
	start := pos - longWindow
	if start < 0 {
		start = 0
	}
	for cand := pos - 1; cand >= start; cand-- {
		n := 0
		for n < limit && src[cand+n] == src[pos+n] {
			n++
		}
		if n > length {
			dist, length = pos-cand, n
			if n == limit {
				break
			}
		}
	}
	return dist, length
}

// Compress encodes src as a PRS stream using greedy matching.
func Compress(src []byte) []byte {
	e := &encoder{bit: 8}
	for pos := 0; pos < len(src); {
		dist, length := longestMatch(src, pos)
		switch {
		case length >= 2 && length <= 5 && dist <= shortWindow:
			e.shortCopy(dist, length)
		case length >= 3:
			e.longCopy(dist, length)
		default:
			e.literal(src[pos])
			length = 1
		}
		pos += length
	}
	e.end()
	return e.out
}
