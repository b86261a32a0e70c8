package jobs

import (
	"context"
	"log"
	"os"
	"time"

	"compsuite/commission"
)

// StartTeamVolumeScheduler posts team-volume and performance bonuses for
// the current period on a fixed interval (daily unless overridden via
// TEAM_VOLUME_INTERVAL). Re-runs within a period are absorbed by the
// ledger's conflict rule.
func StartTeamVolumeScheduler(engine *commission.Engine) {
	interval := 24 * time.Hour
	if raw := os.Getenv("TEAM_VOLUME_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("⚠️  Invalid TEAM_VOLUME_INTERVAL %q, using %s", raw, interval)
		} else {
			interval = parsed
		}
	}

	ticker := time.NewTicker(interval)
	go func() {
		for {
			<-ticker.C
			period := commission.Period(time.Now())
			if err := engine.PostAllTeamVolumeBonuses(context.Background(), period); err != nil {
				log.Printf("❌ error posting team volume bonuses: %v", err)
			}
		}
	}()
}
