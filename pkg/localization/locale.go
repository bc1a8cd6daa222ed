package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed locales/*.json
var builtin embed.FS

// DefaultLanguage используется, если язык не задан
const DefaultLanguage = "en"

type Locale struct {
	lang         string
	translations map[string]string
}

// NewLocale загружает встроенный каталог языка lang
func NewLocale(lang string) (*Locale, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	data, err := builtin.ReadFile("locales/" + lang + ".json")
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q (known: %s)", lang, strings.Join(Languages(), ", "))
	}
	var translations map[string]string
	if err := json.Unmarshal(data, &translations); err != nil {
		return nil, err
	}
	return &Locale{lang: lang, translations: translations}, nil
}

// LoadFile поверх встроенного каталога накладывает переводы из JSON-файла
func (l *Locale) LoadFile(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	var overrides map[string]string
	if err := json.NewDecoder(file).Decode(&overrides); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(filePath), err)
	}
	for k, v := range overrides {
		l.translations[k] = v
	}
	return nil
}

func (l *Locale) Lang() string { return l.lang }

func (l *Locale) Translate(key string) string {
	if translation, ok := l.translations[key]; ok {
		return translation
	}
	return key
}

// Languages возвращает список встроенных языков
func Languages() []string {
	entries, _ := builtin.ReadDir("locales")
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}
