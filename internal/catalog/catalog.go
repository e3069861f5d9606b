// Package catalog - единый реестр категорий услуг.
// Поиск (синонимы), формы (допустимые ключи), сидер таблицы categories
// и ответы API берут данные только отсюда.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Category struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Synonyms []string `json:"synonyms"`
}

const (
	Faxina      = "faxina"
	Eletrica    = "eletrica"
	Pintura     = "pintura"
	Encanamento = "encanamento"
	Jardinagem  = "jardinagem"
	Montagem    = "montagem"
)

var registry = []Category{
	{ID: Faxina, Label: "Faxina", Icon: "sparkles", Synonyms: []string{"faxineira", "diarista", "limpeza"}},
	{ID: Eletrica, Label: "Elétrica", Icon: "zap", Synonyms: []string{"eletricista"}},
	{ID: Pintura, Label: "Pintura", Icon: "paintbrush", Synonyms: []string{"pintor", "pintora"}},
	{ID: Encanamento, Label: "Encanamento", Icon: "wrench", Synonyms: []string{"encanador", "encanadora", "hidraulica"}},
	{ID: Jardinagem, Label: "Jardinagem", Icon: "flower", Synonyms: []string{"jardineiro", "jardineira"}},
	{ID: Montagem, Label: "Montagem de Móveis", Icon: "hammer", Synonyms: []string{"montador", "montadora", "moveis"}},
}

var byID = func() map[string]Category {
	m := make(map[string]Category, len(registry))
	for _, c := range registry {
		m[c.ID] = c
	}
	return m
}()

// All возвращает копию реестра в порядке отображения
func All() []Category {
	out := make([]Category, len(registry))
	copy(out, registry)
	return out
}

func Lookup(id string) (Category, bool) {
	c, ok := byID[strings.ToLower(strings.TrimSpace(id))]
	return c, ok
}

func IsKnown(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Keys - допустимые ключи категорий
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for _, c := range registry {
		keys = append(keys, c.ID)
	}
	return keys
}

// MatchSynonyms возвращает ключи категорий, чей синоним встречается в запросе
// как отдельное слово. "Preciso de uma diarista" -> [faxina].
func MatchSynonyms(query string) []string {
	words := strings.Fields(Fold(query))
	if len(words) == 0 {
		return nil
	}

	var matched []string
	for _, c := range registry {
		if hasSynonym(c, words) {
			matched = append(matched, c.ID)
		}
	}
	return matched
}

func hasSynonym(c Category, words []string) bool {
	for _, syn := range c.Synonyms {
		for _, w := range words {
			if w == syn {
				return true
			}
		}
	}
	return false
}

// Fold приводит строку к нижнему регистру и убирает диакритику: "Elétrica" -> "eletrica".
// transform.Chain хранит буферы, поэтому цепочка своя на каждый вызов.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
