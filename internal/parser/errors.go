package parser

import (
	"fmt"
	"strings"
)

// MapError takes a raw input and a participle error, and returns a
// human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "roll":
		return fmt.Errorf("The command roll takes no arguments: roll")
	case "dice":
		return fmt.Errorf("The command dice must be: dice <faces> (at least 2)")
	case "summary":
		return fmt.Errorf("The command summary takes no arguments: summary")
	}

	return fmt.Errorf("I wasn't able to understand your command")
}
