package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"guestlist/internal/handler"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive guest list menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh := &shell{
				guests:  a.guests,
				scanner: bufio.NewScanner(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
			}
			return sh.run(cmd.Context())
		},
	}
}

type shell struct {
	guests  *handler.GuestHandler
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "🎉 Guest List")
	fmt.Fprintln(s.out, "=============")

	for {
		fmt.Fprintln(s.out, "\nCommands:")
		fmt.Fprintln(s.out, "  1. Add guest")
		fmt.Fprintln(s.out, "  2. View all guests")
		fmt.Fprintln(s.out, "  3. Search and filter guests")
		fmt.Fprintln(s.out, "  4. Statistics")
		fmt.Fprintln(s.out, "  5. Delete guest")
		fmt.Fprintln(s.out, "  6. Exit")
		fmt.Fprint(s.out, "\nEnter command (1-6): ")

		command, ok := s.readLine()
		if !ok {
			return s.scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch command {
		case "1":
			s.addGuest(ctx)
		case "2":
			s.listGuests(ctx, "", "")
		case "3":
			s.filterGuests(ctx)
		case "4":
			s.showStats(ctx)
		case "5":
			s.deleteGuest(ctx)
		case "6":
			fmt.Fprintln(s.out, "Goodbye! 👋")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid command. Please try again.")
		}
	}
}

func (s *shell) readLine() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	return s.readLine()
}

func (s *shell) addGuest(ctx context.Context) {
	var in handler.GuestInput
	var ok bool

	if in.Name, ok = s.prompt("Enter guest name: "); !ok {
		return
	}
	if in.Gender, ok = s.prompt("Enter gender (Male/Female): "); !ok {
		return
	}
	if in.Phone, ok = s.prompt("Enter phone number: "); !ok {
		return
	}
	if in.RSVP, ok = s.prompt("Enter RSVP (yes/no/maybe): "); !ok {
		return
	}

	guest, err := s.guests.Register(ctx, in)
	if err != nil {
		fmt.Fprintf(s.out, "❌ Error adding guest: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "✅ Guest details added (id %d)\n", guest.ID)
}

func (s *shell) filterGuests(ctx context.Context) {
	search, ok := s.prompt("Search name or phone (empty for all): ")
	if !ok {
		return
	}
	fmt.Fprintf(s.out, "Categories: %s\n", categoryHelp())
	category, ok := s.prompt("Enter category: ")
	if !ok {
		return
	}
	s.listGuests(ctx, search, category)
}

func (s *shell) listGuests(ctx context.Context, search, category string) {
	view, err := s.guests.List(ctx, search, category)
	if err != nil {
		fmt.Fprintf(s.out, "❌ Error loading guests: %v\n", err)
		return
	}
	printView(s.out, view)
}

func (s *shell) showStats(ctx context.Context) {
	stats, err := s.guests.Stats(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "❌ Error loading guests: %v\n", err)
		return
	}
	printStats(s.out, stats)
}

func (s *shell) deleteGuest(ctx context.Context) {
	raw, ok := s.prompt("Enter guest ID: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid ID.")
		return
	}

	answer, ok := s.prompt(fmt.Sprintf("Delete guest %d? (y/N): ", id))
	if !ok {
		return
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(s.out, "Cancelled.")
		return
	}

	if err := s.guests.Remove(ctx, id); err != nil {
		fmt.Fprintf(s.out, "❌ Error deleting guest: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "🗑  Guest %d deleted\n", id)
}
