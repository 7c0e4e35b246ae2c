package focus

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// wireCodec переводит текст между UTF-8 и кодировкой устройства.
// Нулевое значение - UTF-8 без преобразований.
type wireCodec struct {
	label string
	enc   encoding.Encoding
}

func newWireCodec(label string) (wireCodec, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return wireCodec{}, nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return wireCodec{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	return wireCodec{label: name, enc: enc}, nil
}

// encode конвертирует строку из UTF-8 в кодировку устройства
func (c wireCodec) encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	res, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("focus: encode to %s: %w", c.label, err)
	}
	return res, nil
}

// decode конвертирует строку из кодировки устройства в UTF-8
func (c wireCodec) decode(data []byte) (string, error) {
	if c.enc == nil {
		return string(data), nil
	}
	r, err := charset.NewReaderLabel(c.label, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("focus: decode from %s: %w", c.label, err)
	}
	return string(out), nil
}
