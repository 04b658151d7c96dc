package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibraryID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"korean label", "후원: 어떤 회사\n라이브러리 ID: 123456789", "123456789"},
		{"english label", "Sponsored\nLibrary ID: 987654321", "987654321"},
		{"korean label no space", "라이브러리ID: 555000111", "555000111"},
		{"english label no space", "LibraryID: 42", "42"},
		{"label without digits", "Library ID: pending", ""},
		{"no label at all", "광고 2건이 이 크리에이티브를 사용함", ""},
		{"empty text", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LibraryID(tt.text))
		})
	}
}

func TestStartDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"korean dotted with phrase", "2025. 6. 26.에 게재 시작함", "2025-06-26"},
		{"korean dotted with short phrase", "2025. 3. 1.에 게재 시작", "2025-03-01"},
		{"korean full date", "2025년 6월 26일", "2025-06-26"},
		{"english month first", "Started running on Jul 1, 2025", "2025-07-01"},
		{"english day first", "Started running on 1 Jul 2025", "2025-07-01"},
		{"english full month name", "Started running on December 25, 2024", "2024-12-25"},
		{"english case insensitive", "started running on JUL 1, 2025", "2025-07-01"},
		{"korean month only", "2025년 7월", "2025-07-01"},
		{"dotted month only", "2025. 7.", "2025-07-01"},
		{"generic label iso", "게재 시작일: 2025-06-26", "2025-06-26"},
		{"generic label slash", "시작일: 2025/06/26", "2025-06-26"},
		{"surrounded by card noise", "활성\n라이브러리 ID: 111\n2025. 6. 26.에 게재 시작함\n플랫폼", "2025-06-26"},
		{"no date", "Library ID: 123456", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartDate(tt.text))
		})
	}
}

func TestStartDateMalformedNumbersFallThrough(t *testing.T) {
	// Day 32 is not a date; the dotted-day rule must not fire, leaving the
	// month-only fallback to pick up year and month.
	assert.Equal(t, "2025-06-01", StartDate("2025. 6. 32."))

	// Month 13 cannot be rescued by any rule.
	assert.Equal(t, "", StartDate("2025년 13월 5일"))

	// February 30 is rejected by calendar validation, not just range checks.
	assert.Equal(t, "2025-02-01", StartDate("2025. 2. 30."))

	// None of these may panic.
	assert.NotPanics(t, func() {
		StartDate("9999. 99. 99.")
		StartDate("0000년 0월 0일")
	})
}

func TestPlatforms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"both platforms", "Platforms: Facebook Instagram", []string{"Facebook", "Instagram"}},
		{"facebook only", "shown on Facebook", []string{"Facebook"}},
		{"instagram only", "Instagram 광고", []string{"Instagram"}},
		{"case insensitive", "FACEBOOK and instagram", []string{"Facebook", "Instagram"}},
		{"korean label implies facebook", "플랫폼", []string{"Facebook"}},
		{"korean label with facebook deduplicates", "플랫폼 Facebook", []string{"Facebook"}},
		{"nothing found defaults", "광고 상세 정보", []string{"Facebook"}},
		{"empty defaults", "", []string{"Facebook"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Platforms(tt.text))
		})
	}
}
