package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Separator splits the tokens of a line.
	Separator = " "

	// MaxFields is the decode split limit. The last field absorbs the rest
	// of the line.
	MaxFields = 4
)

var (
	ErrEmptyLine      = errors.New("empty line")
	ErrUnknownTag     = errors.New("unknown tag")
	ErrMalformed      = errors.New("malformed line")
	ErrNewlineInToken = errors.New("token contains a line break")
)

// Event is a decoded inbound line.
type Event struct {
	Tag  Tag
	Args []string // fields after the tag, at most MaxFields-1
	Raw  string
}

// Arg returns the i-th argument or "" when absent.
func (e Event) Arg(i int) string {
	if i < 0 || i >= len(e.Args) {
		return ""
	}
	return e.Args[i]
}

// IntArg parses the i-th argument as a base 10 integer.
func (e Event) IntArg(i int) (int, error) {
	n, err := strconv.Atoi(e.Arg(i))
	if err != nil {
		return 0, fmt.Errorf("%w: %s argument %d: %v", ErrMalformed, e.Tag, i, err)
	}
	return n, nil
}

// SplitLines breaks a transport frame into its non-empty lines. A frame may
// carry one line or several joined by newlines.
func SplitLines(frame string) []string {
	parts := strings.Split(frame, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimRight(p, "\r")
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}

// Split divides a line into at most MaxFields fields on Separator. Unlike a
// fixed-count split that discards leftovers, the final field keeps all
// remaining text, separators included. Trailing whitespace of the final
// field is trimmed.
func Split(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, Separator, MaxFields)
	if len(fields) > 1 {
		last := len(fields) - 1
		fields[last] = strings.TrimRight(fields[last], " \t\r\n")
	}
	return fields
}

// Decode parses one inbound line.
func Decode(line string) (Event, error) {
	fields := Split(line)
	if len(fields) == 0 || fields[0] == "" {
		return Event{Raw: line}, ErrEmptyLine
	}
	ev := Event{
		Tag:  Tag(fields[0]),
		Args: fields[1:],
		Raw:  line,
	}
	if !ev.Tag.Known() {
		return ev, fmt.Errorf("%w: %q", ErrUnknownTag, fields[0])
	}
	return ev, nil
}

// Command is an outbound line before encoding.
type Command struct {
	Tag  Tag
	Args []string
}

// Encode renders the command as a single newline-terminated line. Tokens
// must not contain line breaks.
func (c Command) Encode() (string, error) {
	if strings.ContainsAny(string(c.Tag), "\r\n"+Separator) || c.Tag == "" {
		return "", fmt.Errorf("%w: tag %q", ErrMalformed, c.Tag)
	}
	var sb strings.Builder
	sb.WriteString(string(c.Tag))
	for i, a := range c.Args {
		if strings.ContainsAny(a, "\r\n") {
			return "", fmt.Errorf("%w: %s argument %d", ErrNewlineInToken, c.Tag, i)
		}
		sb.WriteString(Separator)
		sb.WriteString(a)
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

// Body renders the command without its line terminator, the form embedded
// in a FORWARD command.
func (c Command) Body() (string, error) {
	line, err := c.Encode()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}
