package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-questionnaire-nosql/internal/domain"
)

var defaultQuestions = []string{
	"Do you enjoy working in teams?",
	"Are you comfortable with public speaking?",
	"Do you prefer working with data over people?",
	"Are you motivated by financial rewards?",
	"Do you enjoy creative problem solving?",
	"Are you comfortable with uncertainty?",
	"Do you prefer structured work environments?",
	"Are you willing to work long hours?",
	"Do you enjoy learning new technologies?",
	"Are you comfortable with leadership roles?",
	"Do you prefer remote work?",
	"Are you detail-oriented?",
	"Do you enjoy competitive environments?",
	"Are you comfortable with frequent travel?",
	"Do you prefer working independently?",
	"Are you passionate about helping others?",
	"Do you enjoy analytical thinking?",
	"Are you comfortable with risk-taking?",
	"Do you prefer routine work?",
	"Are you motivated by recognition?",
	"Do you enjoy mentoring others?",
	"Are you comfortable with technology?",
	"Do you prefer fast-paced environments?",
	"Are you willing to relocate for work?",
	"Do you enjoy research and development?",
	"Are you comfortable with client interaction?",
	"Do you prefer working with your hands?",
	"Are you motivated by making a difference?",
	"Do you enjoy planning and organizing?",
	"Are you comfortable with performance pressure?",
	"Do you prefer collaborative decision making?",
	"Are you interested in continuous learning?",
	"Do you enjoy working with numbers?",
	"Are you comfortable with change?",
	"Do you prefer project-based work?",
	"Are you motivated by career advancement?",
	"Do you enjoy teaching others?",
	"Are you comfortable with multitasking?",
	"Do you prefer working in small companies?",
	"Are you interested in innovation?",
	"Do you enjoy customer service?",
	"Are you comfortable with tight deadlines?",
	"Do you prefer working outdoors?",
	"Are you motivated by work-life balance?",
	"Do you enjoy strategic thinking?",
	"Are you comfortable with public presentations?",
	"Do you prefer working with established processes?",
	"Are you interested in entrepreneurship?",
	"Do you enjoy problem-solving under pressure?",
	"Are you comfortable with ambiguous situations?",
}

// LoadQuestions returns the question catalogue. When path is empty the built-in
// list is returned; otherwise path must hold a JSON array of exactly
// domain.QuestionCount non-empty prompts.
func LoadQuestions(path string) ([]string, error) {
	if path == "" {
		out := make([]string, len(defaultQuestions))
		copy(out, defaultQuestions)
		return out, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var qs []string
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	if len(qs) != domain.QuestionCount {
		return nil, fmt.Errorf("questions file has %d entries, want %d", len(qs), domain.QuestionCount)
	}
	for i, q := range qs {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("question %d is empty", i)
		}
	}
	return qs, nil
}
