package utils

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"regexp"
	"strings"
	"unicode"
)

var repeatedUnderscores = regexp.MustCompile(`_+`)

// HashReader returns the hex MD5 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	hash := md5.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// CleanStringForFilename cleans a string for safe use in filenames. Letters
// and digits of any script are kept.
func CleanStringForFilename(input string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		case r == '.':
			return '.'
		default:
			return -1
		}
	}, input)

	clean = repeatedUnderscores.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_.")

	if clean == "" {
		clean = "file"
	}

	if runes := []rune(clean); len(runes) > 100 {
		clean = string(runes[:100])
	}

	return clean
}
