package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Cache janitor
// ============================================================

// JanitorService periodically sweeps the report cache for entries no
// TTL policy could still serve. The stores themselves never
// self-expire; this only reclaims slots from dead entries so they do
// not crowd out live ones under LRU pressure.
type JanitorService struct {
	statsService *StatsService
	cron         *cron.Cron
}

// NewJanitorService creates a new janitor service
func NewJanitorService(statsService *StatsService) *JanitorService {
	return &JanitorService{
		statsService: statsService,
		cron:         cron.New(),
	}
}

// Start schedules the sweep every 5 minutes
func (s *JanitorService) Start() {
	s.cron.AddFunc("@every 5m", func() {
		if pruned := s.statsService.PruneExpired(); pruned > 0 {
			log.Printf("🧹 Cache janitor pruned %d expired report(s)", pruned)
		}
	})
	s.cron.Start()
	log.Println("🚀 Cache janitor started")
}

// Stop gracefully stops the janitor
func (s *JanitorService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cache janitor stopped")
}
