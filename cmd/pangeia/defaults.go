package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Dialogue
	viper.SetDefault("dialogue.acceptance_floor", 0.75)
	viper.SetDefault("dialogue.switch_floor", 0.90)
	viper.SetDefault("nlp.fuzzy_threshold", 0.80)

	// Check-ins
	viper.SetDefault("checkin.rebuild_time", "00:05")
	viper.SetDefault("checkin.jitter", 10*time.Minute)
	viper.SetDefault("checkin.quiet_floor_hour", 8)
	viper.SetDefault("checkin.quiet_ceiling_hour", 21)
	viper.SetDefault("checkin.window", 2*time.Hour)
	viper.SetDefault("checkin.followup_offset", 15*time.Minute)
	viper.SetDefault("checkin.sweep_interval", 30*time.Minute)
	viper.SetDefault("checkin.recipients", []string{})

	// Phrase catalog
	viper.SetDefault("catalog.path", "")

	// Session store backend: memory | file | redis
	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.file.dir", "./state")
	viper.SetDefault("session.redis.addr", "127.0.0.1:6379")
	viper.SetDefault("session.redis.db", 0)
	viper.SetDefault("session.redis.password", "")
	viper.SetDefault("session.redis.namespace", "pangeia")
	viper.SetDefault("session.redis.ttl", 24*time.Hour)

	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)
	viper.SetDefault("trace", false)
}
