package corpus

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseForm maps a configured normalisation name to a norm.Form.
// ok is false for "" and "none", meaning text is left untouched.
func ParseForm(name string) (form norm.Form, ok bool, err error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "NONE":
		return 0, false, nil
	case "NFC":
		return norm.NFC, true, nil
	case "NFD":
		return norm.NFD, true, nil
	case "NFKC":
		return norm.NFKC, true, nil
	case "NFKD":
		return norm.NFKD, true, nil
	}
	return 0, false, fmt.Errorf("unknown normalization form %q", name)
}

// Normalize applies the named Unicode normalisation form to text.
// An empty name or "none" returns text unchanged.
func Normalize(text, name string) (string, error) {
	form, ok, err := ParseForm(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return text, nil
	}
	return form.String(text), nil
}
