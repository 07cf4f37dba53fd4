package exam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

type bytesSource struct {
	data []byte
	err  error
}

func (s *bytesSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

const sampleCSV = "Ano,Numero,Disciplina,Enunciado,Alternativa_A,Alternativa_B,Alternativa_C,Alternativa_D,Gabarito\n" +
	"2024,1,Matemática,Quanto é 2+2?,3,4,5,6,b\n" +
	"2024,2,Português,Qual é o sujeito?,o menino,a bola,,,A\n" +
	"2023,1,História,Quem proclamou?,Deodoro,Pedro II,Getúlio,Rui,A\n"

func TestCSVLoader_Load(t *testing.T) {
	l := NewCSVLoader(&bytesSource{data: []byte(sampleCSV)})

	qs, err := l.Load(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	q := qs[0]
	assert.Equal(t, 2024, q.Year)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, "Matemática", q.Discipline)
	assert.Equal(t, "Quanto é 2+2?", q.Statement)
	assert.Equal(t, "B", q.AnswerKey, "answer key is normalized to upper case")
	assert.Len(t, q.Alternatives, 4)
}

func TestCSVLoader_BlankAlternativesNotOffered(t *testing.T) {
	l := NewCSVLoader(&bytesSource{data: []byte(sampleCSV)})

	qs, err := l.Load(context.Background(), 2024)
	require.NoError(t, err)

	q := qs[1]
	assert.Len(t, q.Alternatives, 2)
	assert.True(t, q.Offered("A"))
	assert.True(t, q.Offered("B"))
	assert.False(t, q.Offered("C"))
	assert.False(t, q.Offered("D"))
}

func TestCSVLoader_FiltersByYear(t *testing.T) {
	l := NewCSVLoader(&bytesSource{data: []byte(sampleCSV)})

	qs, err := l.Load(context.Background(), 2023)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "História", qs[0].Discipline)
}

func TestCSVLoader_UnknownYear(t *testing.T) {
	l := NewCSVLoader(&bytesSource{data: []byte(sampleCSV)})

	_, err := l.Load(context.Background(), 1999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCSVLoader_Latin1Fallback(t *testing.T) {
	// "Matemática" with an ISO 8859-1 encoded "á" (0xE1), invalid as UTF-8.
	raw := []byte("ano,numero,enunciado,gabarito,alternativa_a\n" +
		"2024,1,Matem\xe1tica?,A,sim\n")

	l := NewCSVLoader(&bytesSource{data: raw})

	qs, err := l.Load(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "Matemática?", qs[0].Statement)
}

func TestCSVLoader_BOMAndHeaderNormalization(t *testing.T) {
	raw := []byte("\ufeff ANO , Numero ,Enunciado,Gabarito,Alternativa_A\n2022,7,Pergunta,A,sim\n")

	l := NewCSVLoader(&bytesSource{data: raw})

	qs, err := l.Load(context.Background(), 2022)
	require.NoError(t, err)
	assert.Equal(t, 7, qs[0].Number)
}

func TestCSVLoader_MissingColumn(t *testing.T) {
	raw := []byte("ano,numero,enunciado\n2024,1,Pergunta\n")

	l := NewCSVLoader(&bytesSource{data: raw})

	_, err := l.Load(context.Background(), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gabarito")
}

func TestCSVLoader_InvalidNumber(t *testing.T) {
	raw := []byte("ano,numero,enunciado,gabarito\n2024,oops,Pergunta,A\n")

	l := NewCSVLoader(&bytesSource{data: raw})

	_, err := l.Load(context.Background(), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numero")
}

func TestStore_SessionsAreIsolatedPerUser(t *testing.T) {
	l := NewCSVLoader(&bytesSource{data: []byte(sampleCSV)})
	st := NewStore(l, 10)
	ctx := context.Background()
	key := models.QuestionKey{Year: 2024, Number: 1}

	err := st.With(ctx, "user-1", 2024, func(s *Session) error {
		return s.SelectAnswer(key, "B")
	})
	require.NoError(t, err)

	err = st.With(ctx, "user-2", 2024, func(s *Session) error {
		assert.Equal(t, 0, s.AnsweredCount())
		return nil
	})
	require.NoError(t, err)

	err = st.With(ctx, "user-1", 2024, func(s *Session) error {
		assert.Equal(t, 1, s.AnsweredCount())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_DropStartsFreshSitting(t *testing.T) {
	l := NewCSVLoader(&bytesSource{data: []byte(sampleCSV)})
	st := NewStore(l, 10)
	ctx := context.Background()
	key := models.QuestionKey{Year: 2024, Number: 1}

	err := st.With(ctx, "user-1", 2024, func(s *Session) error {
		return s.SelectAnswer(key, "B")
	})
	require.NoError(t, err)

	st.Drop("user-1", 2024)

	err = st.With(ctx, "user-1", 2024, func(s *Session) error {
		assert.Equal(t, 0, s.AnsweredCount())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_PropagatesLoaderError(t *testing.T) {
	st := NewStore(NewCSVLoader(&bytesSource{data: []byte(sampleCSV)}), 10)

	err := st.With(context.Background(), "user-1", 1999, func(s *Session) error { return nil })
	assert.ErrorIs(t, err, common.ErrNotFound)
}
