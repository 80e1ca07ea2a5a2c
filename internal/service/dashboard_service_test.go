package service

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	at := time.Date(2026, 3, 5, 1, 30, 0, 0, loc)

	got := startOfDay(at)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("startOfDay = %v, want %v", got, want)
	}

	// 非UTC时区下按绝对时间截断会落到前一天，这里必须不同
	if got.Equal(at.Truncate(24 * time.Hour)) {
		t.Fatal("startOfDay must honor the server location, not UTC truncation")
	}
}
