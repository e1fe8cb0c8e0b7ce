package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dom/nonprofit-site/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	sessionFile := os.Getenv("SITEADMIN_SESSION")
	if sessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		sessionFile = filepath.Join(dir, "siteadmin", "session.json")
	}

	a := &app{
		apiURL: apiURL,
		store:  session.NewStore(session.NewFileStorage(sessionFile)),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	run, ok := a.commands()[command]
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`siteadmin - Command line administration for the nonprofit site API

USAGE:
  siteadmin <command> [options]

COMMANDS:
  register        Create an account
  login           Log in and remember the session
  logout          Forget the stored session
  whoami          Show the logged in user
  dashboard       Show totals, this month's additions and recent activity (admin)
  contacts        List contact form submissions (admin)
  create-event    Create an event from flags (admin)
  create-project  Create a project from flags (admin)
  feature-event   Set or clear an event's featured flag (admin)
  update-project  Change a project's status or leader (admin)
  delete-event    Delete an event by id (admin)
  delete-project  Delete a project by id (admin)
  delete-contact  Delete a contact submission by id (admin)
  submit-contact  Send a message through the public contact form
  help            Show this help message

ENVIRONMENT:
  API_URL            Backend API URL (default: http://localhost:8080)
  SITEADMIN_SESSION  Session file (default: <user config dir>/siteadmin/session.json)

EXAMPLES:
  siteadmin login --email=admin@example.org
  siteadmin dashboard
  siteadmin create-event --title="Food Drive" --description="Bring cans" --start=2025-11-01 --end=2025-11-02
  siteadmin update-project --id=7a0e... --status=Active
  siteadmin delete-event --id=3f1c...`)
}
