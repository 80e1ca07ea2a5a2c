package service

import "testing"

func TestGradeObjective(t *testing.T) {
	cases := []struct {
		name         string
		questionType string
		correct      string
		given        string
		want         bool
	}{
		{"exact match", "single_choice", "A", "A", true},
		{"case insensitive", "single_choice", "A", "a", true},
		{"surrounding whitespace", "single_choice", "A", "  A  ", true},
		{"wrong answer", "single_choice", "A", "B", false},
		{"empty given", "single_choice", "A", "", false},
		{"empty correct", "single_choice", "", "A", false},
		{"true false", "true_false", "true", "TRUE", true},
		{"multi same order", "multiple_choice", "A,C", "A,C", true},
		{"multi reordered", "multiple_choice", "A,C", "C,A", true},
		{"multi spaced", "multiple_choice", "A, C", "c , a", true},
		{"multi missing option", "multiple_choice", "A,C", "A", false},
		{"multi extra option", "multiple_choice", "A,C", "A,B,C", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GradeObjective(tc.questionType, tc.correct, tc.given); got != tc.want {
				t.Errorf("GradeObjective(%q, %q, %q) = %v, want %v",
					tc.questionType, tc.correct, tc.given, got, tc.want)
			}
		})
	}
}

func TestGradeOutput(t *testing.T) {
	cases := []struct {
		name     string
		expected string
		actual   string
		want     bool
	}{
		{"identical", "hello\nworld", "hello\nworld", true},
		{"crlf", "hello\nworld", "hello\r\nworld\r\n", true},
		{"trailing spaces per line", "a\nb", "a  \nb\t", true},
		{"trailing newline", "done", "done\n", true},
		{"different content", "hello", "world", false},
		{"inner indent matters", "a\nb", "a\n  b", false},
		{"missing line", "a\nb", "a", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GradeOutput(tc.expected, tc.actual); got != tc.want {
				t.Errorf("GradeOutput(%q, %q) = %v, want %v", tc.expected, tc.actual, got, tc.want)
			}
		})
	}
}
