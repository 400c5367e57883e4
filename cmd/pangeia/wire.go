package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/estevaoantuness/notion-pangeia-sub000/catalog"
	"github.com/estevaoantuness/notion-pangeia-sub000/checkin"
	"github.com/estevaoantuness/notion-pangeia-sub000/dialogue"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/sessionstore"
	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
	"github.com/estevaoantuness/notion-pangeia-sub000/tasks"
)

func catalogFromViper() (*catalog.Catalog, error) {
	if path := strings.TrimSpace(viper.GetString("catalog.path")); path != "" {
		return catalog.Load(path)
	}
	return catalog.New()
}

func matcherFromViper(log *slog.Logger) *nlp.Matcher {
	return nlp.NewMatcher(
		nlp.WithFuzzyThreshold(viper.GetFloat64("nlp.fuzzy_threshold")),
		nlp.WithMatcherLogger(log),
	)
}

// sessionBackends builds the dialogue-state and pending-checkin stores from
// config. The memory backend is per-process; file survives restarts; redis
// shares state across replicas.
func sessionBackends() (sessionstore.Store[dialogue.State], sessionstore.Store[checkin.Pending], error) {
	switch strings.TrimSpace(viper.GetString("session.backend")) {
	case "", "memory":
		return sessionstore.NewMemory[dialogue.State](), sessionstore.NewMemory[checkin.Pending](), nil
	case "file":
		dir := strings.TrimSpace(viper.GetString("session.file.dir"))
		states, err := sessionstore.NewFile[dialogue.State](filepath.Join(dir, "dialogue.json"))
		if err != nil {
			return nil, nil, err
		}
		pendings, err := sessionstore.NewFile[checkin.Pending](filepath.Join(dir, "checkin.json"))
		if err != nil {
			return nil, nil, err
		}
		return states, pendings, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString("session.redis.addr"),
			Password: viper.GetString("session.redis.password"),
			DB:       viper.GetInt("session.redis.db"),
		})
		ns := strings.TrimSpace(viper.GetString("session.redis.namespace"))
		ttl := viper.GetDuration("session.redis.ttl")
		states, err := sessionstore.NewRedis[dialogue.State](sessionstore.RedisOptions{
			Client: client, Namespace: ns + ":dialogue", TTL: ttl,
		})
		if err != nil {
			return nil, nil, err
		}
		pendings, err := sessionstore.NewRedis[checkin.Pending](sessionstore.RedisOptions{
			Client: client, Namespace: ns + ":checkin", TTL: ttl,
		})
		if err != nil {
			return nil, nil, err
		}
		return states, pendings, nil
	default:
		return nil, nil, fmt.Errorf("unknown session.backend: %s", viper.GetString("session.backend"))
	}
}

func schedulerConfigFromViper() checkin.Config {
	cfg := checkin.DefaultConfig()
	cfg.RebuildTime = viper.GetString("checkin.rebuild_time")
	cfg.Jitter = viper.GetDuration("checkin.jitter")
	cfg.QuietFloorHour = viper.GetInt("checkin.quiet_floor_hour")
	cfg.QuietCeilingHour = viper.GetInt("checkin.quiet_ceiling_hour")
	cfg.Window = viper.GetDuration("checkin.window")
	cfg.FollowUpOffset = viper.GetDuration("checkin.followup_offset")
	return cfg
}

func engineFromViper(log *slog.Logger, store tasks.Store, phrases *catalog.Catalog, tracker *checkin.Tracker, states sessionstore.Store[dialogue.State]) (*dialogue.Engine, error) {
	return dialogue.New(
		matcherFromViper(log),
		store,
		phrases,
		tracker,
		dialogue.WithStates(states),
		dialogue.WithAcceptanceFloor(viper.GetFloat64("dialogue.acceptance_floor")),
		dialogue.WithSwitchFloor(viper.GetFloat64("dialogue.switch_floor")),
		dialogue.WithLogger(log),
	)
}

// catalogPrompts adapts the phrase catalog to the scheduler's PromptSource.
type catalogPrompts struct {
	c *catalog.Catalog
}

func (p catalogPrompts) Prompt(kind checkin.Type) string {
	switch kind {
	case checkin.TypeMorning:
		return p.c.Pick(catalog.CatCheckinMorning, nil)
	case checkin.TypeMidday:
		return p.c.Pick(catalog.CatCheckinMidday, nil)
	default:
		return p.c.Pick(catalog.CatCheckinEvening, nil)
	}
}

func (p catalogPrompts) Reminder(kind checkin.Type) string {
	return p.c.Pick(catalog.CatCheckinReminder, map[string]string{"tipo": string(kind)})
}

func sweepInterval() time.Duration {
	return viper.GetDuration("checkin.sweep_interval")
}
