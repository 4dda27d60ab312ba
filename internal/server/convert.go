package server

import (
	"fmt"
	"sync"

	"github.com/longbridgeapp/opencc"
)

// DefaultConvert turns Traditional Chinese output into Simplified.
const DefaultConvert = "t2s"

var conversions = map[string]bool{
	"t2s": true, "s2t": true,
	"tw2s": true, "s2tw": true, "tw2sp": true, "s2twp": true,
	"hk2s": true, "s2hk": true,
	"t2tw": true, "t2hk": true,
}

// ValidConvert reports whether name is empty (no conversion) or a known
// OpenCC conversion.
func ValidConvert(name string) bool {
	return name == "" || conversions[name]
}

// Converter rewrites a transcript, e.g. between Chinese scripts.
type Converter interface {
	Convert(text string) (string, error)
}

// converters loads each OpenCC dictionary once; loading is the slow part.
type converters struct {
	mu     sync.Mutex
	loaded map[string]Converter
	load   func(name string) (Converter, error)
}

func newConverters() *converters {
	return &converters{
		loaded: make(map[string]Converter),
		load: func(name string) (Converter, error) {
			return opencc.New(name)
		},
	}
}

func (c *converters) get(name string) (Converter, error) {
	if !conversions[name] {
		return nil, fmt.Errorf("unsupported conversion: %s", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.loaded[name]; ok {
		return cv, nil
	}
	cv, err := c.load(name)
	if err != nil {
		return nil, fmt.Errorf("load conversion %s: %w", name, err)
	}
	c.loaded[name] = cv
	return cv, nil
}

// apply runs the named conversion over text; an empty name returns text as is.
func (c *converters) apply(name, text string) (string, error) {
	if name == "" || text == "" {
		return text, nil
	}
	cv, err := c.get(name)
	if err != nil {
		return "", err
	}
	out, err := cv.Convert(text)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", name, err)
	}
	return out, nil
}
