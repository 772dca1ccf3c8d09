package classifier

import (
	"fmt"
	"sync"

	"github.com/liuzl/gocc"
)

// converters wraps the OpenCC converters, loaded on first use
type converters struct {
	once sync.Once
	s2t  *gocc.OpenCC // Simplified to Traditional
	t2s  *gocc.OpenCC // Traditional to Simplified
	err  error
}

var cc converters

func (c *converters) load() error {
	c.once.Do(func() {
		var err error

		c.s2t, err = gocc.New("s2t")
		if err != nil {
			c.err = fmt.Errorf("failed to initialize s2t converter: %w", err)
			return
		}

		c.t2s, err = gocc.New("t2s")
		if err != nil {
			c.err = fmt.Errorf("failed to initialize t2s converter: %w", err)
		}
	})
	return c.err
}

// ConverterAvailable reports whether the OpenCC dictionaries could be loaded
func ConverterAvailable() bool {
	return cc.load() == nil
}

// ToTraditional converts simplified Chinese to traditional Chinese
func ToTraditional(text string) (string, error) {
	if err := cc.load(); err != nil {
		return "", err
	}
	return cc.s2t.Convert(text)
}

// ToSimplified converts traditional Chinese to simplified Chinese
func ToSimplified(text string) (string, error) {
	if err := cc.load(); err != nil {
		return "", err
	}
	return cc.t2s.Convert(text)
}

// foldToSimplified returns the simplified form of text, or text itself when
// conversion is unavailable
func foldToSimplified(text string) string {
	if text == "" {
		return text
	}
	s, err := ToSimplified(text)
	if err != nil {
		return text
	}
	return s
}
