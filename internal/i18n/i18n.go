// Package i18n loads per text domain translation catalogs and hands out printers for them.
//
// Catalogs are embedded YAML files at languages/<domain>/<locale>.yaml:
//
//	locale: fr-FR
//	messages:
//	  "Menu Items": "Articles du menu"
//
// Message keys are the source (en-US) strings, so a missing catalog or key prints the source.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// SourceLocale is the language message keys are written in.
const SourceLocale = "en-US"

// ErrNoCatalog is returned when a text domain ships no translations.
var ErrNoCatalog = errors.New("no translation catalog")

//go:embed languages
var embedded embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Domain holds the translations of one text domain.
type Domain struct {
	name      string
	builder   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

// Load reads the embedded catalogs of a text domain.
func Load(domain string) (*Domain, error) {
	sub, err := fs.Sub(embedded, "languages")
	if err != nil {
		return nil, fmt.Errorf("open embedded languages: %w", err)
	}

	return LoadFS(sub, domain)
}

// LoadFS reads <domain>/*.yaml from fsys.
func LoadFS(fsys fs.FS, domain string) (*Domain, error) {
	paths, err := fs.Glob(fsys, path.Join(domain, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob %s catalogs: %w", domain, err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w for text domain %q", ErrNoCatalog, domain)
	}

	sort.Strings(paths)

	d := Fallback(domain)

	for _, p := range paths {
		if err = d.add(fsys, p); err != nil {
			return nil, err
		}
	}

	d.matcher = language.NewMatcher(d.supported)

	return d, nil
}

// Fallback returns a domain without translations. Its printers return the source strings.
func Fallback(domain string) *Domain {
	src := language.MustParse(SourceLocale)

	return &Domain{
		name:      domain,
		builder:   catalog.NewBuilder(catalog.Fallback(src)),
		supported: []language.Tag{src},
		matcher:   language.NewMatcher([]language.Tag{src}),
	}
}

func (d *Domain) add(fsys fs.FS, p string) error {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", p, err)
	}

	var file catalogFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog %s: %w", p, err)
	}

	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if file.Locale == "" {
		file.Locale = fromPath
	}

	if file.Locale != fromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name", p, file.Locale)
	}

	tag, err := language.Parse(file.Locale)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", p, err)
	}

	for key, msg := range file.Messages {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}

		if err = d.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: key %q: %w", p, key, err)
		}
	}

	d.supported = append(d.supported, tag)

	return nil
}

// Name returns the text domain.
func (d *Domain) Name() string {
	return d.name
}

// Languages returns the locales the domain can print, source first.
func (d *Domain) Languages() []language.Tag {
	out := make([]language.Tag, len(d.supported))
	copy(out, d.supported)

	return out
}

// Match returns the supported locale closest to the wanted ones.
func (d *Domain) Match(want ...language.Tag) language.Tag {
	_, idx, conf := d.matcher.Match(want...)
	if conf == language.No {
		return d.supported[0]
	}

	return d.supported[idx]
}

// Printer returns a printer for the supported locale closest to tag.
func (d *Domain) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(d.Match(tag), message.Catalog(d.builder))
}

// PrinterFor parses an Accept-Language style list and falls back to def when it is empty or invalid.
func (d *Domain) PrinterFor(acceptLanguage string, def language.Tag) *message.Printer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return d.Printer(def)
	}

	return message.NewPrinter(d.Match(tags...), message.Catalog(d.builder))
}
