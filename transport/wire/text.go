package wire

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// None marks an absent free-text field.
const None = "NONE"

// PasswordFlag trails a ROOM entry whose room requires a password.
const PasswordFlag = "PASSWORD"

// EncodeText converts free text into a separator-free token.
func EncodeText(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeText reverses EncodeText.
func DecodeText(token string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: text token: %v", ErrMalformed, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: text token is not UTF-8", ErrMalformed)
	}
	return string(b), nil
}

// EncodeOptionalText is EncodeText with None standing in for "".
func EncodeOptionalText(s string) string {
	if s == "" {
		return None
	}
	return EncodeText(s)
}

// DecodeOptionalText reverses EncodeOptionalText.
func DecodeOptionalText(token string) (string, error) {
	if token == None || token == "" {
		return "", nil
	}
	return DecodeText(token)
}
