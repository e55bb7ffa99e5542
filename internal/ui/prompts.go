package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// In is the prompt input source, overridable in tests.
var In *bufio.Reader = bufio.NewReader(os.Stdin)

// AskString prompts the user for a string input.
func AskString(prompt string) string {
	_, _ = fmt.Fprintf(Out, "  %s: ", prompt)

	response, _ := In.ReadString('\n')
	return strings.TrimSpace(response)
}

// AskInt prompts the user for an integer, returning the default on empty or
// invalid input.
func AskInt(prompt string, defaultValue int) int {
	_, _ = fmt.Fprintf(Out, "  %s [%d]: ", prompt, defaultValue)

	response, _ := In.ReadString('\n')
	response = strings.TrimSpace(response)
	if response == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(response)
	if err != nil {
		return defaultValue
	}
	return value
}
