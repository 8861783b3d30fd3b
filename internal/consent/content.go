package consent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LocaleEntry pairs a locale code with its banner copy.
type LocaleEntry struct {
	Locale string
	Text   LocalizedText
}

// Content maps locale codes to banner copy and remembers insertion order,
// which the last step of the locale fallback chain depends on.
type Content struct {
	entries []LocaleEntry
	index   map[string]int
}

// NewContent builds content from entries in order. Later duplicates replace
// earlier copy but keep the first position.
func NewContent(entries ...LocaleEntry) *Content {
	c := &Content{}
	for _, entry := range entries {
		c.Set(entry.Locale, entry.Text)
	}
	return c
}

// Set adds or replaces the copy for locale.
func (c *Content) Set(locale string, text LocalizedText) {
	locale = strings.TrimSpace(locale)
	if c.index == nil {
		c.index = map[string]int{}
	}
	if idx, ok := c.index[locale]; ok {
		c.entries[idx].Text = text
		return
	}
	c.index[locale] = len(c.entries)
	c.entries = append(c.entries, LocaleEntry{Locale: locale, Text: text})
}

// Get returns the copy defined for exactly locale.
func (c *Content) Get(locale string) (LocalizedText, bool) {
	if c == nil {
		return LocalizedText{}, false
	}
	idx, ok := c.index[locale]
	if !ok {
		return LocalizedText{}, false
	}
	return c.entries[idx].Text, true
}

// First returns the earliest defined entry.
func (c *Content) First() (LocaleEntry, bool) {
	if c == nil || len(c.entries) == 0 {
		return LocaleEntry{}, false
	}
	return c.entries[0], true
}

// Len reports the number of locales.
func (c *Content) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Locales returns locale codes in definition order.
func (c *Content) Locales() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry.Locale)
	}
	return out
}

// Entries returns a copy of the entries in definition order.
func (c *Content) Entries() []LocaleEntry {
	if c == nil {
		return nil
	}
	return append([]LocaleEntry(nil), c.entries...)
}

// UnmarshalYAML decodes a mapping node, keeping key order.
func (c *Content) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("content: line %d: expected a mapping of locale to text", node.Line)
	}
	decoded := Content{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var text LocalizedText
		if err := valueNode.Decode(&text); err != nil {
			return fmt.Errorf("content %s: %w", keyNode.Value, err)
		}
		decoded.Set(keyNode.Value, text)
	}
	*c = decoded
	return nil
}

// UnmarshalJSON decodes an object, keeping key order.
func (c *Content) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("content: expected an object of locale to text")
	}
	decoded := Content{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("content: %w", err)
		}
		locale, _ := keyTok.(string)
		var text LocalizedText
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("content %s: %w", locale, err)
		}
		decoded.Set(locale, text)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	*c = decoded
	return nil
}

// MarshalJSON encodes content as an object in definition order.
func (c Content) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Locale)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
