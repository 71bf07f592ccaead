package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"zonajp/internal/broadcast"
	"zonajp/internal/config"
	"zonajp/internal/dispatch"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show the broadcast schedule and next fire times",
		Long:  "Prints every broadcast trigger with its cron spec, destination and next fire time. Does not need BOT_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse(os.Getenv)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			for _, w := range cfg.Warnings {
				logger.Warn("config value ignored", "reason", w)
			}

			cat, err := loadContent(cfg)
			if err != nil {
				return fmt.Errorf("load content: %w", err)
			}
			upcoming, err := broadcast.Next(broadcast.DefaultTriggers(cat), cfg.Location, time.Now())
			if err != nil {
				return err
			}
			renderSchedule(cmd.OutOrStdout(), cfg, upcoming)
			return nil
		},
	}
}

func renderSchedule(w io.Writer, cfg *config.Config, upcoming []broadcast.Upcoming) {
	fmt.Fprintln(w, titleStyle.Render("Broadcast schedule ("+cfg.Timezone+")"))
	for _, u := range upcoming {
		note := ""
		if !destinationConfigured(cfg, u.Trigger.Destination) {
			note = " " + warnStyle.Render("[not configured, will be skipped]")
		}
		fmt.Fprintf(w, "  %-12s %-11s %-9s next %s%s\n",
			u.Trigger.Name,
			u.Trigger.Spec,
			u.Trigger.Destination,
			timeStyle.Render(u.Next.In(cfg.Location).Format("2006-01-02 15:04 MST")),
			note,
		)
	}
}

func destinationConfigured(cfg *config.Config, dest dispatch.Destination) bool {
	switch dest {
	case dispatch.Community:
		return cfg.CommunityConfigured()
	case dispatch.Topic:
		return cfg.TopicConfigured()
	}
	return false
}
