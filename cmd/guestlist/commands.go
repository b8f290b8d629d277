package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"guestlist/internal/handler"
	"guestlist/internal/models"
	"guestlist/internal/query"
)

func newAddCmd(a *app) *cobra.Command {
	var in handler.GuestInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a guest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			guest, err := a.guests.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added %s (id %d)\n", guest.Name, guest.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&in.ID, "id", 0, "guest ID (default: assigned from the current time)")
	cmd.Flags().StringVar(&in.Name, "name", "", "guest name")
	cmd.Flags().StringVar(&in.Gender, "gender", "", "Male or Female")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.RSVP, "rsvp", string(models.RSVPYes), "yes, no or maybe")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var search, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List guests, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.guests.List(cmd.Context(), search, category)
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or phone number")
	cmd.Flags().StringVarP(&category, "category", "c", string(models.CategoryAll), categoryHelp())
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show RSVP statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.guests.Stats(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var (
		id  int64
		all bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a guest by ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if all {
				if err := a.guests.RemoveAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "🗑  All guests deleted")
				return nil
			}
			if !cmd.Flags().Changed("id") {
				return errors.New("either --id or --all is required")
			}
			if err := a.guests.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out, "🗑  Guest %d deleted\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "ID of the guest to delete")
	cmd.Flags().BoolVar(&all, "all", false, "delete every guest")
	cmd.MarkFlagsMutuallyExclusive("id", "all")
	return cmd
}

func categoryHelp() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return "one of " + strings.Join(names, ", ")
}

func printView(w io.Writer, view *handler.ListView) {
	if len(view.Guests) == 0 {
		fmt.Fprintln(w, "\nNo guests found.")
	} else {
		fmt.Fprintf(w, "\n📋 Guests (%d shown, category %s):\n", len(view.Guests), view.Category)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, g := range view.Guests {
			printGuest(w, g)
			fmt.Fprintln(w, strings.Repeat("-", 60))
		}
	}
	printStats(w, view.Stats)
}

func printGuest(w io.Writer, g models.Guest) {
	fmt.Fprintf(w, "ID: %d\n", g.ID)
	fmt.Fprintf(w, "Name: %s\n", g.Name)
	fmt.Fprintf(w, "Gender: %s\n", g.Gender)
	fmt.Fprintf(w, "Phone: %d\n", g.Phone)
	fmt.Fprintf(w, "RSVP: %s\n", g.RSVP)
}

func printStats(w io.Writer, s query.Statistics) {
	fmt.Fprintf(w, "Total: %d | Coming: %d | Not coming: %d | Maybe: %d\n",
		s.Total, s.Coming, s.NotComing, s.Maybe)
}
