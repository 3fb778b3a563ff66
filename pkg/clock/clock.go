package clock

import "time"

// Clock là nguồn thời gian được inject vào các service
// Fine calculation phụ thuộc vào "now", nên không gọi time.Now() trực tiếp
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New trả về clock dùng thời gian hệ thống (UTC)
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed là clock đứng yên, dùng cho tests và replay
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

// Date trả về calendar date (00:00 UTC) của t
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
