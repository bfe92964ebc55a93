// Package i18n provides the translation catalog for user-facing message
// bodies. Tables are embedded JSON, one file per language; lookups fall back
// to the default language when a key or language is missing.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLanguage is used when the requested language has no table or the
// requested key is absent from it.
const DefaultLanguage = "en"

// Catalog resolves translation keys to formatted strings.
type Catalog struct {
	defaultLang string
	tables      map[string]map[string]string
	matcher     language.Matcher
	tags        []language.Tag
}

// Load parses all embedded locale tables.
func Load(defaultLang string) (*Catalog, error) {
	if defaultLang == "" {
		defaultLang = DefaultLanguage
	}
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}

	c := &Catalog{
		defaultLang: defaultLang,
		tables:      make(map[string]map[string]string, len(entries)),
	}
	for _, e := range entries {
		name := e.Name()
		lang := strings.TrimSuffix(name, path.Ext(name))
		data, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
		c.tables[lang] = table
	}
	if _, ok := c.tables[c.defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q has no locale table", c.defaultLang)
	}

	// Matcher prefers the default language, then the rest alphabetically
	// for deterministic resolution.
	c.tags = append(c.tags, language.Make(c.defaultLang))
	var rest []string
	for lang := range c.tables {
		if lang != c.defaultLang {
			rest = append(rest, lang)
		}
	}
	sort.Strings(rest)
	for _, lang := range rest {
		c.tags = append(c.tags, language.Make(lang))
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Resolve maps an arbitrary BCP-47 code ("es-MX", "pt-BR") onto a supported
// locale, falling back to the default language.
func (c *Catalog) Resolve(code string) string {
	if code == "" {
		return c.defaultLang
	}
	tag, err := language.Parse(code)
	if err != nil {
		return c.defaultLang
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return c.defaultLang
	}
	base, _ := c.tags[idx].Base()
	lang := base.String()
	if _, ok := c.tables[lang]; !ok {
		return c.defaultLang
	}
	return lang
}

// Text returns the translation for key in lang, formatted with args.
// Missing keys and languages fall back to the default table; an unknown key
// in both tables returns the key itself so the gap is visible, not silent.
func (c *Catalog) Text(key, lang string, args ...any) string {
	lang = c.Resolve(lang)
	if table, ok := c.tables[lang]; ok {
		if raw, ok := table[key]; ok {
			return format(raw, args)
		}
	}
	if raw, ok := c.tables[c.defaultLang][key]; ok {
		return format(raw, args)
	}
	return key
}

// Languages returns the supported locale codes, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.tags))
	for _, t := range c.tags {
		base, _ := t.Base()
		out = append(out, base.String())
	}
	return out
}

func format(raw string, args []any) string {
	if len(args) == 0 {
		return raw
	}
	return fmt.Sprintf(raw, args...)
}
