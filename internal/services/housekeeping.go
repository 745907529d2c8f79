package services

import (
	"context"
	"log"
	"time"
)

// HousekeepingService периодически сбрасывает истёкший платный доступ,
// чтобы флаги в БД не висели до следующего визита клиента.
type HousekeepingService struct {
	Access   AccessService
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewHousekeepingService(access AccessService, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Access:   access,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start не блокирует; Stop ждёт завершения текущего прохода.
func (s *HousekeepingService) Start() {
	go s.run()
	log.Printf("[housekeeping] started interval=%s", s.Interval)
}

func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	log.Printf("[housekeeping] stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.Access.ExpireLapsedAccess(ctx)
	if err != nil {
		log.Printf("[housekeeping][err] expire lapsed access: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[housekeeping] expired access for %d clients", n)
	}
}
