// services/scheduler.go
package services

import (
	"log"
	"time"

	"backgammon-server/models"

	"github.com/go-co-op/gocron/v2"
)

const staleInviteAge = 24 * time.Hour

// StartInviteSweeper deletes pending invites nobody accepted within a day.
func (s *InviteService) StartInviteSweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-staleInviteAge)
			res := s.DB.Where("status = ? AND created_at < ?", models.MatchPending, cutoff).
				Delete(&models.Match{})
			if res.Error != nil {
				log.Printf("[Sweeper] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("[Sweeper] removed %d stale invites", res.RowsAffected)
			}
		}),
	)
}
