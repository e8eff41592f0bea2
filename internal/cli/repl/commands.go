package repl

import "strings"

// CommandList holds the command names shown by help.
type CommandList struct {
	commands []string
}

// NewCommandList creates the list of known commands.
func NewCommandList() *CommandList {
	return &CommandList{
		commands: []string{"ECHO", "GET", "SET", "PING", "help", "exit", "quit"},
	}
}

// Match returns the commands starting with prefix, ignoring case.
func (c *CommandList) Match(prefix string) []string {
	var names []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), strings.ToLower(prefix)) {
			names = append(names, cmd)
		}
	}
	return names
}
