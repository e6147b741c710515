// Package wordlist provides the immutable BIP39 word/index mappings used to
// build and validate mnemonic phrases. Each supported language is loaded once
// and shared read-only afterwards.
package wordlist

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// Size is the number of entries every BIP39 wordlist must contain.
const Size = 2048

// List is an immutable 2048-entry word/index mapping for one language.
type List struct {
	language string
	words    []string
	index    map[string]int
}

// New builds a List from the given words. It fails if the list does not
// contain exactly 2048 unique entries.
func New(language string, words []string) (*List, error) {
	if len(words) != Size {
		return nil, errors.Errorf("wordlist %q has %d words, want %d", language, len(words), Size)
	}

	index := make(map[string]int, Size)
	for i, w := range words {
		if _, dup := index[w]; dup {
			return nil, errors.Errorf("wordlist %q has duplicate word %q", language, w)
		}
		index[w] = i
	}

	list := &List{
		language: language,
		words:    append([]string(nil), words...),
		index:    index,
	}

	return list, nil
}

// Language returns the language this list was built for.
func (l *List) Language() string {
	return l.language
}

// Len returns the number of words in the list (always Size).
func (l *List) Len() int {
	return len(l.words)
}

// Word returns the word at the given index.
func (l *List) Word(i int) (string, bool) {
	if i < 0 || i >= len(l.words) {
		return "", false
	}
	return l.words[i], true
}

// Index returns the index of the given word.
func (l *List) Index(word string) (int, bool) {
	i, ok := l.index[word]
	return i, ok
}

var builtin = map[string]*struct {
	words []string
	once  sync.Once
	list  *List
}{
	"english":  {words: wordlists.English},
	"japanese": {words: wordlists.Japanese},
	"spanish":  {words: wordlists.Spanish},
	"french":   {words: wordlists.French},
	"italian":  {words: wordlists.Italian},
	"korean":   {words: wordlists.Korean},
	"czech":    {words: wordlists.Czech},
}

func builtinList(language string) *List {
	entry := builtin[language]
	entry.once.Do(func() {
		list, err := New(language, entry.words)
		if err != nil {
			// The embedded lists are compile-time constants; a malformed one
			// is a packaging defect, not a runtime input error.
			panic(err)
		}
		entry.list = list
	})
	return entry.list
}

// English returns the shared English wordlist.
func English() *List {
	return builtinList("english")
}

// Japanese returns the shared Japanese wordlist.
func Japanese() *List {
	return builtinList("japanese")
}

// Spanish returns the shared Spanish wordlist.
func Spanish() *List {
	return builtinList("spanish")
}

// ByLanguage returns the shared wordlist for the given language name
// (case-insensitive).
func ByLanguage(language string) (*List, error) {
	key := strings.ToLower(strings.TrimSpace(language))
	if _, ok := builtin[key]; !ok {
		return nil, errors.Errorf("unsupported wordlist language %q", language)
	}
	return builtinList(key), nil
}
