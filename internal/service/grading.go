package service

import (
	"sort"
	"strings"
)

// GradeObjective 客观题判分：去首尾空格、忽略大小写比对。
// 多选题答案为逗号分隔的选项标签，比对时忽略选项顺序。
func GradeObjective(questionType, correctAnswer, givenAnswer string) bool {
	correct := strings.TrimSpace(strings.ToLower(correctAnswer))
	given := strings.TrimSpace(strings.ToLower(givenAnswer))
	if correct == "" || given == "" {
		return false
	}

	if questionType == "multiple_choice" {
		return normalizeChoiceSet(correct) == normalizeChoiceSet(given)
	}

	return correct == given
}

func normalizeChoiceSet(answer string) string {
	parts := strings.Split(answer, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

// GradeOutput 练习题判分：逐行去除行尾空白后比对输出
func GradeOutput(expected, actual string) bool {
	return normalizeOutput(expected) == normalizeOutput(actual)
}

func normalizeOutput(out string) string {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	joined := strings.Join(lines, "\n")
	return strings.TrimSpace(joined)
}
