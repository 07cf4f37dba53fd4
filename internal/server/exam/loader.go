// Package exam supplies exam content and tracks per-user progress through
// it: a CSV loader over pluggable byte sources (local file, S3), and the
// per-sitting session state machine with its store.
package exam

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// Source produces the raw bytes of the exams CSV.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the exams CSV from local disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading exams file: %w", err)
	}
	return data, nil
}

// Loader returns the ordered question set for a year.
type Loader interface {
	Load(ctx context.Context, year int) ([]models.Question, error)
}

// CSVLoader parses the exams CSV fetched from a Source.
//
// Expected columns (names are lower-cased and trimmed on ingestion, a UTF-8
// BOM on the first header is tolerated): ano, numero, disciplina, enunciado,
// alternativa_a..alternativa_d, gabarito. A blank alternative cell means the
// letter is not offered for that question.
type CSVLoader struct {
	source Source
}

func NewCSVLoader(source Source) *CSVLoader {
	return &CSVLoader{source: source}
}

// Load fetches and parses the CSV and returns the questions of the given
// year in file order. A year with no questions yields common.ErrNotFound.
func (l *CSVLoader) Load(ctx context.Context, year int) ([]models.Question, error) {
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions(decode(data))
	if err != nil {
		return nil, err
	}

	var out []models.Question
	for _, q := range questions {
		if q.Year == year {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no exam for year %d", common.ErrNotFound, year)
	}

	return out, nil
}

// decode attempts UTF-8 first and falls back to Latin-1 when the bytes are
// not valid UTF-8 (legacy exports of the exams file).
func decode(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 decoding cannot fail on arbitrary bytes; keep the
		// original data as a last resort.
		return data
	}
	return decoded
}

func parseQuestions(data []byte) ([]models.Question, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing exams csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("exams csv has no data rows")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, k := range []string{"ano", "numero", "enunciado", "gabarito"} {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("exams csv: missing required column %q", k)
		}
	}

	var out []models.Question
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		year, err := strconv.Atoi(get("ano"))
		if err != nil {
			return nil, fmt.Errorf("exams csv row %d: invalid ano %q", rowIdx+1, get("ano"))
		}
		number, err := strconv.Atoi(get("numero"))
		if err != nil {
			return nil, fmt.Errorf("exams csv row %d: invalid numero %q", rowIdx+1, get("numero"))
		}

		alternatives := map[string]string{}
		for _, letter := range models.AnswerLetters {
			text := get("alternativa_" + strings.ToLower(letter))
			if text != "" {
				alternatives[letter] = text
			}
		}

		out = append(out, models.Question{
			Year:         year,
			Number:       number,
			Discipline:   get("disciplina"),
			Statement:    get("enunciado"),
			Alternatives: alternatives,
			AnswerKey:    models.NormalizeLetter(get("gabarito")),
		})
	}

	return out, nil
}
