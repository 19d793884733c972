package dcl

// Header values of a stream written by Store.
const (
	literalsUncoded = 0x00
	dictBits1K      = 0x04
)

// Store encodes src as a DCL stream of uncoded literals followed by the end
// code. Nothing is compressed; the stream is about an eighth larger than src
// and any DCL decoder accepts it.
func Store(src []byte) []byte {
	w := bitWriter{out: []byte{literalsUncoded, dictBits1K}}
	for _, b := range src {
		w.put(0, 1)
		w.put(uint32(b), 8)
	}
	// End code: a copy flag, length symbol 15 (whose inverted code is seven
	// zero bits) and eight extra bits of ones, giving length 519.
	w.put(1, 1)
	w.put(0, 7)
	w.put(0xff, 8)
	return w.flush()
}

// bitWriter packs values LSB first, as the decoder reads them.
type bitWriter struct {
	out  []byte
	acc  byte
	nbit uint
}

func (w *bitWriter) put(v uint32, bits uint) {
	for i := uint(0); i < bits; i++ {
		w.acc |= byte(v>>i&1) << w.nbit
		w.nbit++
		if w.nbit == 8 {
			w.out = append(w.out, w.acc)
			w.acc, w.nbit = 0, 0
		}
	}
}

func (w *bitWriter) flush() []byte {
	if w.nbit > 0 {
		w.out = append(w.out, w.acc)
		w.acc, w.nbit = 0, 0
	}
	return w.out
}
