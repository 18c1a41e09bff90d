package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ratio lets num out of every den events through. A zero ratio lets everything through.
type ratio struct {
	num, den atomic.Int64
	seen     atomic.Int64
}

func (r *ratio) set(num, den int) {
	if num <= 0 || den <= 0 {
		num, den = 0, 0
	}
	if num > den {
		num = den
	}
	r.num.Store(int64(num))
	r.den.Store(int64(den))
	r.seen.Store(0)
}

func (r *ratio) allow() bool {
	num, den := r.num.Load(), r.den.Load()
	if num == 0 || den == 0 {
		return true
	}
	return (r.seen.Add(1)-1)%den < num
}

// parseRatio accepts "n/d" or a bare "d" meaning 1/d. Invalid input yields 0/0.
func parseRatio(raw string) (int, int) {
	raw = strings.TrimSpace(raw)
	if n, d, ok := strings.Cut(raw, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(n))
		den, err2 := strconv.Atoi(strings.TrimSpace(d))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
