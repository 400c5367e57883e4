package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/estevaoantuness/notion-pangeia-sub000/checkin"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/logutil"
)

// scheduleNoopMessenger satisfies the scheduler for preview-only runs; the
// preview never fires a job.
type scheduleNoopMessenger struct{}

func (scheduleNoopMessenger) Send(context.Context, string, string) (string, error) {
	return "", nil
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview the computed check-in timetable for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			phrases, err := catalogFromViper()
			if err != nil {
				return err
			}

			day := time.Now()
			if raw := viper.GetString("schedule.day"); raw != "" {
				day, err = time.ParseInLocation("2006-01-02", raw, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --day: %w", err)
				}
			}

			opts := []checkin.SchedulerOption{checkin.WithSchedulerLogger(log)}
			if viper.IsSet("schedule.seed") {
				opts = append(opts, checkin.WithSchedulerSeed(viper.GetInt64("schedule.seed")))
			}
			scheduler, err := checkin.NewScheduler(
				schedulerConfigFromViper(),
				scheduleNoopMessenger{},
				catalogPrompts{c: phrases},
				checkin.NewTracker(),
				opts...,
			)
			if err != nil {
				return err
			}
			scheduler.SetRecipients(viper.GetStringSlice("checkin.recipients"))

			jobs := scheduler.Timetable(day)
			if len(jobs) == 0 {
				fmt.Println("no check-ins scheduled (empty recipient list or free day)")
				return nil
			}
			for _, job := range jobs {
				fmt.Printf("%s  %-8s  %s\n", job.FireAt.Format("15:04"), job.Kind, job.UserID)
			}
			return nil
		},
	}
	cmd.Flags().String("day", "", "Day to preview (YYYY-MM-DD, default today).")
	cmd.Flags().Int64("seed", 0, "Pin the jitter seed for a reproducible preview.")
	_ = viper.BindPFlag("schedule.day", cmd.Flags().Lookup("day"))
	_ = viper.BindPFlag("schedule.seed", cmd.Flags().Lookup("seed"))
	return cmd
}
