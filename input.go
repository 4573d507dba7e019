package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const commandMarker = "/"

// input is one line typed by the user. A command line names a built-in or a
// macro, possibly empty when the marker stands alone; any other line holds
// text for the server.
type input struct {
	isCommand bool
	command   string
	line      string
}

func parseInput(line string) input {
	fields := strings.Fields(line)
	if len(fields) > 0 && strings.HasPrefix(fields[0], commandMarker) {
		if strings.HasPrefix(fields[0], commandMarker+commandMarker) {
			return input{line: strings.Replace(line, commandMarker, "", 1)}
		}
		return input{isCommand: true, command: strings.TrimPrefix(fields[0], commandMarker)}
	}
	return input{line: line}
}

// readInput sends each line of r to inputs and closes inputs at end of file.
// It stops early after forwarding a quit command, since nothing will read
// past it.
func readInput(r io.Reader, inputs chan<- input, logger zerolog.Logger) {
	defer close(inputs)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		in := parseInput(scanner.Text())
		inputs <- in
		if in.isCommand && in.command == "quit" {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Msg("reading input")
	}
}
