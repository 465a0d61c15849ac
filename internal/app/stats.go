package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"live-quiz-service/internal/domain"
)

// LogActiveSessions writes one summary line plus one line per session.
func LogActiveSessions(log zerolog.Logger, sessions []domain.SessionSnapshot) {
	log.Info().Int("sessions", len(sessions)).Msg("active sessions")
	for _, s := range sessions {
		log.Info().
			Str("pin", s.PinCode).
			Int("players", len(s.Players)).
			Str("status", string(s.Status)).
			Msg("session")
	}
}

// ReportSessions logs the live sessions of svc every interval until ctx is done.
func ReportSessions(ctx context.Context, svc *QuizService, log zerolog.Logger, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			LogActiveSessions(log, svc.ActiveSessions())
		}
	}
}
