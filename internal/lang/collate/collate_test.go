package collate

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFollowsUkrainianAlphabet(t *testing.T) {
	words := []string{"їжак", "ґанок", "яблуко", "іній", "гора", "єнот", "ера", "и", "йод", "кіт"}
	sort.SliceStable(words, func(i, j int) bool { return Less(words[i], words[j]) })

	want := []string{"гора", "ґанок", "ера", "єнот", "и", "іній", "їжак", "йод", "кіт", "яблуко"}
	assert.Equal(t, want, words)
}

func TestKeyIgnoresCaseAndStress(t *testing.T) {
	assert.Equal(t, Key("кіт"), Key("Кі\u0301т"))
}

func TestKeyKeepsUnmappedCharacters(t *testing.T) {
	assert.NotEqual(t, Key("мясо"), Key("м'ясо"))
	assert.Equal(t, "\x00\x00\x00", Key("cat"))
	assert.Equal(t, "0\x00S", Key("а'я"))
	assert.True(t, Less("ка", "кава"))
}

func TestUnmappedCharactersSortBeforeLetters(t *testing.T) {
	words := []string{"півабо", "аа", "пів-яблука", "а'я", "м'ясо", "мясо"}
	sort.SliceStable(words, func(i, j int) bool { return Less(words[i], words[j]) })

	want := []string{"а'я", "аа", "м'ясо", "мясо", "пів-яблука", "півабо"}
	assert.Equal(t, want, words)
}

func TestParseOrder(t *testing.T) {
	for _, name := range Orders() {
		o, err := ParseOrder(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(o))
	}

	_, err := ParseOrder("relevance")
	assert.True(t, errors.Is(err, ErrUnknownOrder))
}
