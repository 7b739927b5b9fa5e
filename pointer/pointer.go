package pointer

import "time"

func FromAny[T any](v T) *T {
	return &v
}

func ToString(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func ToTime(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}

	return *p
}
