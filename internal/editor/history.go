package editor

const defaultHistorySize = 64

// PointerSample is a pointer position in normalized canvas coordinates.
type PointerSample struct {
	X, Y float64
}

// history is a fixed-size ring of the most recent accepted samples. It is a
// hook for stroke smoothing and is cleared whenever the image changes.
type history struct {
	buf   []PointerSample
	next  int
	count int
}

func newHistory(n int) *history {
	if n < 0 {
		n = 0
	}
	return &history{buf: make([]PointerSample, n)}
}

func (h *history) push(s PointerSample) {
	if len(h.buf) == 0 {
		return
	}
	h.buf[h.next] = s
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

func (h *history) samples() []PointerSample {
	out := make([]PointerSample, 0, h.count)
	start := (h.next - h.count + len(h.buf)) % max(len(h.buf), 1)
	for i := 0; i < h.count; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}

func (h *history) reset() {
	h.next = 0
	h.count = 0
}
