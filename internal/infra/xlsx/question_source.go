package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"quiz-client/internal/domain"
)

var columns = []string{"id", "question", "optiona", "optionb", "optionc", "optiond", "correct"}

// QuestionSource reads the question bank from a spreadsheet. The first row is a
// header naming the columns id, question, optionA..optionD and correct, in any order.
// The file is reopened on every load so edits show up without a restart.
type QuestionSource struct {
	path  string
	sheet string
}

// NewQuestionSource reads sheet from path; an empty sheet name means the first sheet.
func NewQuestionSource(path, sheet string) *QuestionSource {
	return &QuestionSource{path: path, sheet: sheet}
}

func (s *QuestionSource) LoadQuestions(_ context.Context) ([]domain.QuestionBankEntry, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, domain.ErrQuestionsUnavailable
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	questions := make([]domain.QuestionBankEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell("question") == "" {
			continue
		}
		questions = append(questions, domain.QuestionBankEntry{
			ID:       domain.QuestionID(cell("id")),
			Question: cell("question"),
			OptionA:  cell("optiona"),
			OptionB:  cell("optionb"),
			OptionC:  cell("optionc"),
			OptionD:  cell("optiond"),
			Correct:  domain.NormalizeLetter(cell("correct")),
		})
	}
	if len(questions) == 0 {
		return nil, domain.ErrQuestionsUnavailable
	}
	return questions, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, name := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
		index[key] = i
	}
	var missing []string
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet header is missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}
