package model

import "testing"

func TestQuestionGrade(t *testing.T) {
	tests := []struct {
		name    string
		qtype   QuestionType
		correct string
		raw     string
		want    bool
	}{
		{"mcq exact", QuestionTypeMCQ, "b", "b", true},
		{"mcq case insensitive", QuestionTypeMCQ, "b", "B", true},
		{"mcq trimmed", QuestionTypeMCQ, "b", "  b ", true},
		{"mcq wrong", QuestionTypeMCQ, "b", "a", false},
		{"tf exact", QuestionTypeTF, "True", "True", true},
		{"tf case sensitive", QuestionTypeTF, "True", "true", false},
		{"tf trimmed", QuestionTypeTF, "False", " False ", true},
		{"fill case insensitive", QuestionTypeFill, "const", "CONST", true},
		{"fill trimmed", QuestionTypeFill, "4", " 4", true},
		{"fill wrong", QuestionTypeFill, "4", "5", false},
		{"empty submission", QuestionTypeFill, "4", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Question{QuestionType: tt.qtype, CorrectAnswer: tt.correct}
			if got := q.Grade(tt.raw); got != tt.want {
				t.Errorf("Grade(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
