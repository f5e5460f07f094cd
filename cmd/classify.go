/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Pjt727/classboard/board"
	"github.com/Pjt727/classboard/config"
	"github.com/Pjt727/classboard/schedule"
)

var errNoDatabase = errors.New("no database configured")

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Prints the board once",
	Long: `Loads the schedule once and prints the classes in progress and the
next classes for the given instant (defaulting to now)`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "classify",
		})
		cfg, err := config.Load(configPath)
		if err != nil {
			logger.Error("Could not load config: ", err)
			os.Exit(1)
		}
		at, showEnded, asJSON, err := classifyFlags(cmd)
		if err != nil {
			logger.Error("invalid flags: ", err)
			os.Exit(1)
		}
		if showEnded {
			cfg.Classifier.ShowEnded = true
		}

		now := time.Now().In(cfg.Location())
		if at != "" {
			now, err = parseAt(at, cfg.Location())
			if err != nil {
				logger.Error("Could not parse at: ", err)
				os.Exit(1)
			}
		}

		ctx := context.Background()
		// the board logs row problems through slog, they are printed as warnings below
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		src, closeSource, err := newSource(ctx, cfg, quiet)
		if err != nil {
			logger.Error("Could not open schedule source: ", err)
			os.Exit(1)
		}
		defer closeSource()

		b, err := newBoard(cfg, src, schedule.FixedClock{Time: now}, quiet)
		if err != nil {
			logger.Error("Invalid classifier config: ", err)
			os.Exit(1)
		}
		snap := b.Snapshot(ctx)
		if snap.Failed() {
			logger.Error("Could not load schedule from ", src.Name())
			os.Exit(1)
		}
		for _, warning := range snap.Warnings {
			logger.Warn(warning)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap); err != nil {
				logger.Error("Could not encode snapshot: ", err)
				os.Exit(1)
			}
			return
		}
		printSnapshot(os.Stdout, cfg.Title, snap)
	},
}

func classifyFlags(cmd *cobra.Command) (at string, showEnded, asJSON bool, err error) {
	if at, err = cmd.Flags().GetString("at"); err != nil {
		return "", false, false, err
	}
	if showEnded, err = cmd.Flags().GetBool("show-ended"); err != nil {
		return "", false, false, err
	}
	if asJSON, err = cmd.Flags().GetBool("json"); err != nil {
		return "", false, false, err
	}
	return at, showEnded, asJSON, nil
}

// parseAt accepts an RFC3339 timestamp or a "YYYY-MM-DD HH:MM" civil time in loc
func parseAt(at string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", at, loc); err == nil {
		return t, nil
	}
	tod, err := schedule.ParseTimeOfDay(at)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC3339, \"YYYY-MM-DD HH:MM\" nor HH:MM", at)
	}
	return tod.On(time.Now().In(loc)), nil
}

var (
	headingColor = color.New(color.Bold, color.FgCyan)
	periodColor  = color.New(color.FgYellow)
	emptyColor   = color.New(color.Faint)
)

func printSnapshot(w io.Writer, title string, snap board.Snapshot) {
	headingColor.Fprintf(w, "%s - %s %s\n", title, snap.Weekday, snap.GeneratedAt.Format("15:04"))
	printGroup(w, "Classes in progress", "No classes in progress.", snap.Ongoing)
	printGroup(w, "Next classes", "No more classes today.", snap.Upcoming)
	if snap.ShowEnded {
		printGroup(w, "Finished classes", "No classes have finished yet.", snap.Ended)
	}
}

func printGroup(w io.Writer, title, empty string, list []schedule.Classified) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, title)
	if len(list) == 0 {
		emptyColor.Fprintln(w, "  "+empty)
		return
	}
	for _, group := range schedule.GroupByPeriod(list) {
		periodColor.Fprintf(w, "  %s\n", group.Period)
		for _, entry := range group.Entries {
			line := fmt.Sprintf("    %-8s %-30s %-4s %s-%s %-8s",
				entry.Code, entry.Name, entry.Section, entry.Start, entry.End, entry.Room)
			switch entry.Status {
			case schedule.Ongoing:
				line += " ends in " + schedule.FormatDuration(entry.Remaining)
			case schedule.Upcoming:
				line += " starts in " + schedule.FormatDuration(entry.UntilStart)
			}
			fmt.Fprintln(w, line)
		}
	}
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().String("at", "", "instant to classify against (RFC3339, \"YYYY-MM-DD HH:MM\" or HH:MM)")
	classifyCmd.Flags().Bool("show-ended", false, "also list the classes that already ended")
	classifyCmd.Flags().Bool("json", false, "print the snapshot as json")
}
