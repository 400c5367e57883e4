package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/estevaoantuness/notion-pangeia-sub000/checkin"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/logutil"
	"github.com/estevaoantuness/notion-pangeia-sub000/tasks"
)

// consoleMessenger prints scheduler/follow-up sends to the terminal so the
// whole loop is observable without a chat gateway.
type consoleMessenger struct{}

func (consoleMessenger) Send(_ context.Context, userID, text string) (string, error) {
	fmt.Printf("\n[pangeia → %s] %s\n> ", userID, text)
	return fmt.Sprintf("console-%d", time.Now().UnixNano()), nil
}

func newConsoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the engine locally (in-memory task store)",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			userID := strings.TrimSpace(viper.GetString("console.user"))
			if userID == "" {
				userID = "console"
			}

			phrases, err := catalogFromViper()
			if err != nil {
				return err
			}
			states, pendings, err := sessionBackends()
			if err != nil {
				return err
			}
			tracker := checkin.NewTracker(
				checkin.WithTrackerStore(pendings),
				checkin.WithTrackerLogger(log),
			)
			engine, err := engineFromViper(log, tasks.NewMemory(), phrases, tracker, states)
			if err != nil {
				return err
			}

			scheduler, err := checkin.NewScheduler(
				schedulerConfigFromViper(),
				consoleMessenger{},
				catalogPrompts{c: phrases},
				tracker,
				checkin.WithUserLocks(engine.Locks()),
				checkin.WithSchedulerLogger(log),
			)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			scheduler.SetRecipients([]string{userID})
			scheduler.Start(ctx)
			go func() {
				interval := sweepInterval()
				if interval <= 0 {
					return
				}
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						tracker.Sweep()
					}
				}
			}()

			fmt.Println("pangeia console — digite uma mensagem ('sair' encerra)")
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "sair" || line == "exit" {
					return nil
				}
				if line != "" {
					for _, part := range engine.Handle(ctx, userID, line) {
						fmt.Println(part)
					}
				}
				fmt.Print("> ")
			}
			return scanner.Err()
		},
	}
	cmd.Flags().String("user", "console", "User id for the local session.")
	_ = viper.BindPFlag("console.user", cmd.Flags().Lookup("user"))
	return cmd
}
