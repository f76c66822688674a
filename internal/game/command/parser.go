package command

import (
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command, inner spacing preserved.
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	cmd, rest, found := strings.Cut(line, " ")
	if !found {
		return ParseResult{Command: strings.ToLower(line)}
	}
	rest = strings.TrimSpace(rest)

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: strings.ToLower(cmd),
		Args:    args,
		RawArgs: rest,
	}
}

// SplitQuantity separates a trailing or leading count from an item argument,
// so that "health potion 3", "3 health potion", and "health potion" all name
// the same item.
//
// Postcondition: quantity is 1 when no count is present; target is the
// remaining words joined by single spaces. hasQty reports whether a count
// was given explicitly.
func SplitQuantity(args []string) (target string, quantity int, hasQty bool) {
	if len(args) == 0 {
		return "", 1, false
	}
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			return strings.Join(args[:len(args)-1], " "), n, true
		}
		if n, err := strconv.Atoi(args[0]); err == nil {
			return strings.Join(args[1:], " "), n, true
		}
	}
	return strings.Join(args, " "), 1, false
}
