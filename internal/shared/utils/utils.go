package utils

import (
	"strconv"
	"strings"
	"time"
)

// NullIfBlank trim s, trả về nil nếu rỗng (cột nullable như isbn, university_id)
func NullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StringValue trả về "" nếu s nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ParseID parse path param thành id dương
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseDate parse "2006-01-02", trả về nil nếu s rỗng
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
