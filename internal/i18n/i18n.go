// Package i18n holds the UI string tables. Keys are dotted paths
// ("nav.about"); lookups fall back to the default locale and then to the
// key itself.
package i18n

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var embedded []byte

// Locale describes one selectable language.
type Locale struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
	Dir   string `yaml:"dir" json:"dir"` // "ltr" or "rtl"
}

// Table maps locale code → dotted key → value. Values are strings or
// string lists.
type Table struct {
	def     string
	locales []Locale
	strs    map[string]map[string]string
	lists   map[string]map[string][]string
}

type document struct {
	Default string                    `yaml:"default"`
	Locales []Locale                  `yaml:"locales"`
	Strings map[string]map[string]any `yaml:"strings"`
}

// Default returns the embedded table.
func Default() *Table {
	t, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded translations: %v", err))
	}
	return t
}

// Load reads a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML translation document.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	if doc.Default == "" {
		doc.Default = "en"
	}
	if _, ok := doc.Strings[doc.Default]; !ok {
		return nil, fmt.Errorf("default locale %q has no strings", doc.Default)
	}

	t := &Table{
		def:     doc.Default,
		locales: doc.Locales,
		strs:    make(map[string]map[string]string, len(doc.Strings)),
		lists:   make(map[string]map[string][]string, len(doc.Strings)),
	}
	for code, tree := range doc.Strings {
		t.strs[code] = map[string]string{}
		t.lists[code] = map[string][]string{}
		if err := t.flatten(code, "", tree); err != nil {
			return nil, fmt.Errorf("locale %s: %w", code, err)
		}
	}
	return t, nil
}

func (t *Table) flatten(code, prefix string, node map[string]any) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			t.strs[code][key] = val
		case map[string]any:
			if err := t.flatten(code, key, val); err != nil {
				return err
			}
		case []any:
			list := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("key %s: list items must be strings", key)
				}
				list = append(list, s)
			}
			t.lists[code][key] = list
		case nil:
		default:
			return fmt.Errorf("key %s: unsupported value %T", key, v)
		}
	}
	return nil
}

// DefaultLocale is the fallback locale code.
func (t *Table) DefaultLocale() string { return t.def }

// Locales lists the selectable locales in declaration order.
func (t *Table) Locales() []Locale {
	return append([]Locale(nil), t.locales...)
}

// Locale returns the metadata for code, or the default locale's.
func (t *Table) Locale(code string) Locale {
	for _, l := range t.locales {
		if l.Code == code {
			return l
		}
	}
	for _, l := range t.locales {
		if l.Code == t.def {
			return l
		}
	}
	return Locale{Code: t.def, Dir: "ltr"}
}

// Has reports whether code has its own string table.
func (t *Table) Has(code string) bool {
	_, ok := t.strs[code]
	return ok
}

// Resolve maps an unknown locale to the default.
func (t *Table) Resolve(code string) string {
	if t.Has(code) {
		return code
	}
	return t.def
}

// Lookup returns the string for key in locale, falling back to the default
// locale, then to key.
func (t *Table) Lookup(locale, key string) string {
	if v, ok := t.strs[locale][key]; ok {
		return v
	}
	if v, ok := t.strs[t.def][key]; ok {
		return v
	}
	return key
}

// List is Lookup for string lists. A missing key yields nil.
func (t *Table) List(locale, key string) []string {
	if v, ok := t.lists[locale][key]; ok {
		return v
	}
	return t.lists[t.def][key]
}

// Lists returns every list value for locale, with the default locale
// filling gaps.
func (t *Table) Lists(locale string) map[string][]string {
	out := map[string][]string{}
	for k, v := range t.lists[t.def] {
		out[k] = v
	}
	for k, v := range t.lists[locale] {
		out[k] = v
	}
	return out
}

// Section returns every string under prefix for locale, with the default
// locale filling gaps. Keys are returned relative to prefix.
func (t *Table) Section(locale, prefix string) map[string]string {
	out := map[string]string{}
	collect := func(m map[string]string) {
		for k, v := range m {
			if rest, ok := strings.CutPrefix(k, prefix+"."); ok {
				if _, seen := out[rest]; !seen {
					out[rest] = v
				}
			}
		}
	}
	collect(t.strs[locale])
	collect(t.strs[t.def])
	return out
}

// Keys returns every key known for locale, including inherited ones, sorted.
func (t *Table) Keys(locale string) []string {
	seen := map[string]bool{}
	for k := range t.strs[t.def] {
		seen[k] = true
	}
	for k := range t.strs[locale] {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Translator binds a table to one locale.
type Translator struct {
	Table  *Table
	Locale string
}

func (t *Table) For(locale string) Translator {
	return Translator{Table: t, Locale: t.Resolve(locale)}
}

func (tr Translator) T(key string) string { return tr.Table.Lookup(tr.Locale, key) }

func (tr Translator) List(key string) []string { return tr.Table.List(tr.Locale, key) }
