package main

import (
	"fmt"

	"zonajp/internal/broadcast"
	"zonajp/internal/channel"
	"zonajp/internal/config"
	"zonajp/internal/dispatch"

	"github.com/spf13/cobra"
)

func triggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "trigger <name>",
		Short:     "Send one scheduled broadcast now",
		Long:      "Sends the named broadcast (pola-harian, promo-siang, bukti-cuan) immediately, e.g. after a missed run.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pola-harian", "promo-siang", "bukti-cuan"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cat, err := loadContent(cfg)
			if err != nil {
				return fmt.Errorf("load content: %w", err)
			}
			triggers := broadcast.DefaultTriggers(cat)
			if _, ok := broadcast.Find(triggers, args[0]); !ok {
				return fmt.Errorf("unknown trigger %q", args[0])
			}

			telegramCh, err := channel.NewTelegram(channel.TelegramConfig{
				Token:  cfg.Token,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			d := dispatch.New(cfg, telegramCh, logger)

			res, err := broadcast.Fire(cmd.Context(), d, triggers, args[0], logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			if !res.OK() {
				if code := channel.APIErrorCode(res.Err); code != 0 {
					logger.Error("bot API rejected broadcast", "trigger", args[0], "code", code)
				}
				return res.Err
			}
			return nil
		},
	}
}
