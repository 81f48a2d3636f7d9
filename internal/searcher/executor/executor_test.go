package executor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/dictionarytest"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
)

func newExecutor() *Executor {
	return New(dictionarytest.New(), config.Default().Search, nil, nil)
}

func ids(entries []*dictionary.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func headwords(entries []*dictionary.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Headword
	}
	return out
}

func TestLookupExactHeadword(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: "кіт", Exact: true})
	assert.Equal(t, []int{dictionarytest.Kit}, ids(res.Data))
	assert.Equal(t, 1, res.TotalMatches)
	assert.Equal(t, []string{"кіт"}, res.FuzzyWords)
	assert.Equal(t, []string{}, res.LiteralPhrases)
}

func TestLookupPartOfSpeechMismatch(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: "кіт", PartOfSpeech: "verb"})
	assert.Empty(t, res.Data)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 0, res.TotalMatches)
}

func TestLookupPrefix(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: "кі"})
	assert.Contains(t, ids(res.Data), dictionarytest.Kit)
	assert.Contains(t, ids(res.Data), dictionarytest.Cat)
}

func TestLookupLiteralPhraseInDefinition(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: `"tomcat"`})
	assert.Equal(t, []int{dictionarytest.Kit}, ids(res.Data))
	assert.Equal(t, []string{"tomcat"}, res.LiteralPhrases)
	assert.Equal(t, []string{}, res.FuzzyWords)
}

func TestLookupPhraseMustBeContiguous(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: `"велика хата"`})
	assert.Equal(t, []int{dictionarytest.BigHut}, ids(res.Data))
}

func TestLookupSingleLetterSubstringInFreqOrder(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: "к"})
	want := []int{
		dictionarytest.Big, dictionarytest.Cat, dictionarytest.Whale, dictionarytest.Kit,
		dictionarytest.Porch, dictionarytest.Roll, dictionarytest.Hut, dictionarytest.BigHut,
		dictionarytest.Hedgehog, dictionarytest.Cafe,
	}
	assert.Equal(t, want, ids(res.Data))
}

func TestLookupEmptyQueryReturnsEverything(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Limit: 3})
	assert.Equal(t, 11, res.TotalMatches)
	assert.Equal(t, []int{dictionarytest.Big, dictionarytest.House, dictionarytest.Cat}, ids(res.Data))
	assert.Nil(t, res.LiteralPhrases)
	assert.Nil(t, res.FuzzyWords)

	// exact has nothing to compare against
	assert.Equal(t, 11, e.Lookup(Request{Exact: true}).TotalMatches)
}

func TestLookupBlankPhraseDoesNotRestrict(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: `""`})
	assert.Equal(t, 11, res.TotalMatches)
	assert.Equal(t, []string{""}, res.LiteralPhrases)
}

func TestLookupAlphaOrders(t *testing.T) {
	e := newExecutor()

	alpha := e.Lookup(Request{Sort: collate.OrderAlpha})
	assert.Equal(t, []string{
		"вели\u0301кий", "ґа\u0301нок", "ї\u0301жак", "кафе\u0301", "кит", "кіт",
		"кі\u0301шка", "коти\u0301ти", "ха\u0301та", "хати\u0301нка", "хати\u0301ще",
	}, headwords(alpha.Data))

	rev := e.Lookup(Request{Sort: collate.OrderAlphaRev})
	require.Len(t, rev.Data, len(alpha.Data))
	for i := range alpha.Data {
		assert.Same(t, alpha.Data[len(alpha.Data)-1-i], rev.Data[i])
	}
}

func TestLookupExactIgnoresStressAndCaseButNotLetterVariants(t *testing.T) {
	e := newExecutor()

	assert.Equal(t, []int{dictionarytest.Hedgehog}, ids(e.Lookup(Request{Query: " Їжак ", Exact: true}).Data))
	assert.Empty(t, e.Lookup(Request{Query: "іжак", Exact: true}).Data)
	assert.Equal(t, []int{dictionarytest.Hedgehog}, ids(e.Lookup(Request{Query: "іжак"}).Data))
}

func TestLookupExactRespectsPartOfSpeech(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: "котити", Exact: true, PartOfSpeech: "noun"})
	assert.Empty(t, res.Data)
}

func TestLookupUnknownLetterIsEmpty(t *testing.T) {
	e := newExecutor()

	res := e.Lookup(Request{Query: "кіт ю"})
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.TotalMatches)
}

func TestLookupAndIsSubsetOfEachWord(t *testing.T) {
	e := newExecutor()

	both := ids(e.Lookup(Request{Query: "domestic cat"}).Data)
	first := ids(e.Lookup(Request{Query: "domestic"}).Data)
	second := ids(e.Lookup(Request{Query: "cat"}).Data)

	require.NotEmpty(t, both)
	for _, id := range both {
		assert.Contains(t, first, id)
		assert.Contains(t, second, id)
	}
}

func TestLookupExactResultsMatchQuery(t *testing.T) {
	e := newExecutor()

	for _, q := range []string{"кіт", "кит", "ХА\u0301ТА", "кафе", "велик"} {
		for _, en := range e.Lookup(Request{Query: q, Exact: true}).Data {
			assert.Equal(t, exactKey(q), exactKey(en.Headword))
		}
	}
}

func TestLookupDoesNotMutateViews(t *testing.T) {
	e := newExecutor()
	before := append([]*dictionary.Entry(nil), e.Dictionary().Store.View(collate.OrderFreq)...)

	res := e.Lookup(Request{Limit: 2})
	res.Data[0] = nil
	e.Lookup(Request{Query: "к", PartOfSpeech: "noun"})

	assert.Equal(t, before, e.Dictionary().Store.View(collate.OrderFreq))
}

func TestResultJSON(t *testing.T) {
	e := newExecutor()

	raw, err := json.Marshal(e.Lookup(Request{Query: "zzz"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"literalPhrases":[],"fuzzyWords":["zzz"],"totalMatches":0}`, string(raw))

	raw, err = json.Marshal(e.Lookup(Request{PartOfSpeech: "nothing"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"literalPhrases":null,"fuzzyWords":null,"totalMatches":0}`, string(raw))
}

func TestExecute(t *testing.T) {
	e := newExecutor()

	res, err := e.Execute(context.Background(), Request{Query: "кіт", Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalMatches)
}

func TestExecuteCancelled(t *testing.T) {
	e := newExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, Request{Query: "кіт"})
	assert.True(t, errors.Is(err, apperrors.ErrTimeout))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHighlightQuery(t *testing.T) {
	e := newExecutor()

	got := e.HighlightQuery(`"domestic cat" кі`, "domestic cat (кіт), кішка")
	assert.Equal(t, "<mark>domestic cat</mark> (кіт), <mark>кі</mark>шка", got)
}
