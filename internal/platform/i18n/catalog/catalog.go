// Package catalog loads the embedded UI message catalogs.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other locale falls back to.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

type localeCatalog struct {
	namespaces map[string]map[string]string
	messages   map[string]string
}

// Bundle holds all locales loaded from one filesystem.
type Bundle struct {
	locales map[string]*localeCatalog
	builder *xcatalog.Builder
	matcher language.Matcher
	tags    []language.Tag
	names   []string
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*localeCatalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := bundle.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := bundle.build(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(p))
	namespaceFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	switch {
	case locale == "":
		return fmt.Errorf("catalog %s: locale is required", p)
	case locale != localeFromPath:
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, localeFromPath)
	}
	namespace := strings.TrimSpace(file.Namespace)
	switch {
	case namespace == "":
		return fmt.Errorf("catalog %s: namespace is required", p)
	case namespace != namespaceFromPath:
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", p, namespace, namespaceFromPath)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}

	lc, ok := b.locales[locale]
	if !ok {
		lc = &localeCatalog{namespaces: map[string]map[string]string{}, messages: map[string]string{}}
		b.locales[locale] = lc
	}
	if _, exists := lc.namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for %s", p, namespace, locale)
	}

	entries := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if !strings.HasPrefix(key, namespace+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, key, namespace+".")
		}
		if _, exists := lc.messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in %s", p, key, locale)
		}
		lc.messages[key] = value
		entries[key] = value
	}
	lc.namespaces[namespace] = entries
	return nil
}

// build registers every locale with its own x/text catalog. Keys missing from
// a locale are filled from the base locale.
func (b *Bundle) build() error {
	b.builder = xcatalog.NewBuilder(xcatalog.Fallback(language.MustParse(BaseLocale)))

	names := make([]string, 0, len(b.locales))
	for name := range b.locales {
		if name != BaseLocale {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{BaseLocale}, names...)

	base := b.locales[BaseLocale].messages
	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", name, err)
		}
		tags = append(tags, tag)
		own := b.locales[name].messages
		for key, value := range base {
			if translated, ok := own[key]; ok {
				value = translated
			}
			if err := b.builder.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s %s: %w", name, key, err)
			}
		}
	}
	b.names = names
	b.tags = tags
	b.matcher = language.NewMatcher(tags)
	return nil
}

// Locales returns the loaded locales, base locale first.
func (b *Bundle) Locales() []string {
	return append([]string(nil), b.names...)
}

// HasLocale reports whether locale was loaded.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Message returns the raw message for key, falling back to the base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if lc, ok := b.locales[strings.TrimSpace(locale)]; ok {
		if value, ok := lc.messages[key]; ok {
			return value, true
		}
	}
	value, ok := b.locales[BaseLocale].messages[key]
	return value, ok
}

// NamespaceMessages returns a copy of one namespace for locale.
func (b *Bundle) NamespaceMessages(locale, namespace string) map[string]string {
	out := map[string]string{}
	lc, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return out
	}
	for key, value := range lc.namespaces[strings.TrimSpace(namespace)] {
		out[key] = value
	}
	return out
}

// Match picks the best loaded locale for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return BaseLocale
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return BaseLocale
	}
	return b.names[index]
}

// Localizer formats messages for one locale.
type Localizer struct {
	locale  string
	printer *message.Printer
}

// Localizer returns a formatter for locale. Unknown locales use the base
// locale.
func (b *Bundle) Localizer(locale string) Localizer {
	locale = strings.TrimSpace(locale)
	if !b.HasLocale(locale) {
		locale = BaseLocale
	}
	return Localizer{
		locale:  locale,
		printer: message.NewPrinter(language.MustParse(locale), message.Catalog(b.builder)),
	}
}

// Locale returns the resolved locale.
func (l Localizer) Locale() string {
	return l.locale
}

// T formats the message for key. An unknown key is returned as is.
func (l Localizer) T(key string, args ...any) string {
	if l.printer == nil {
		return key
	}
	return l.printer.Sprintf(key, args...)
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}
