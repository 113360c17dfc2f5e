package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// runREPL starts the interactive shell. Every non-command line is treated as
// a voice command and run through the detection pipeline; the outcome the
// user reports with "ok"/"no <correction>" feeds the learning store.
func runREPL() error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	fmt.Printf("voicepilot v%s - Turkish voice-command intent engine\n", version)
	fmt.Println("Type a command in Turkish, or 'help' for shell commands.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	lastCommand := ""

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Println("Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil

		case "help":
			printHelp()

		case "stats":
			printStats(p)

		case "history":
			for _, e := range p.history.Recent(10) {
				status := "ok"
				if !e.Success {
					status = "failed"
				}
				fmt.Printf("  %s  %-30s %s\n", e.Timestamp.Format("15:04:05"), e.Command, status)
			}

		case "suggest":
			partial := strings.Join(fields[1:], " ")
			for _, s := range p.detector.GetCommandSuggestions(partial) {
				fmt.Printf("  %s\n", s)
			}

		case "teach":
			// teach <phrase> = <command>
			rest := strings.Join(fields[1:], " ")
			parts := strings.SplitN(rest, "=", 2)
			if len(parts) != 2 {
				fmt.Println("Usage: teach <phrase> = <command>")
				continue
			}
			phrase := strings.TrimSpace(parts[0])
			command := strings.TrimSpace(parts[1])
			p.detector.AddCustomCommand(phrase, command)
			fmt.Printf("Learned: %q -> %q\n", phrase, command)

		case "ok":
			if lastCommand == "" {
				fmt.Println("Nothing to confirm.")
				continue
			}
			p.detector.RecordCommandResult(lastCommand, true, "")
			fmt.Println("Noted.")

		case "no":
			if lastCommand == "" {
				fmt.Println("Nothing to correct.")
				continue
			}
			correction := strings.Join(fields[1:], " ")
			p.detector.RecordCommandResult(lastCommand, false, correction)
			if correction != "" {
				fmt.Printf("Noted, %q will be suggested next time.\n", correction)
			} else {
				fmt.Println("Noted.")
			}

		default:
			result := p.detect(line)
			printResult(result)
			lastCommand = line
		}
	}
}

func printHelp() {
	fmt.Println(`Shell commands:
  help                       Show this help
  stats                      Learning and session statistics
  history                    Last 10 commands of this session
  suggest [partial]          Command suggestions
  teach <phrase> = <command> Map a custom phrase to a system command
  ok                         Confirm the last detection was right
  no [correction]            Report the last detection was wrong
  exit                       Quit

Anything else is detected as a Turkish voice command.`)
}
