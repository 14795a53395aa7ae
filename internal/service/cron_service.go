package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron job shape errors.
var (
	ErrInvalidDailyTime = errors.New("invalid daily time")
	ErrInvalidInterval  = errors.New("invalid interval")
)

// CronService wraps the cron runner behind the two job shapes the core
// needs: a daily slot for the digest and a fixed interval for the
// reminder resweep.
type CronService struct {
	cron *cron.Cron
}

func NewCronService(loc *time.Location) *CronService {
	return &CronService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDaily registers a job at the given HH:MM local time.
func (s *CronService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := dailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a periodic job every given duration,
// rounded down to whole seconds with a one-second floor.
func (s *CronService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	seconds := max(int(interval.Seconds()), 1)
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

func (s *CronService) Start() {
	s.cron.Start()
}

// Stop halts the runner and waits for in-flight jobs.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// dailySpec turns HH:MM into a six-field cron spec
// (second minute hour dom month dow).
func dailySpec(timeStr string) (string, error) {
	hh, mm, found := strings.Cut(timeStr, ":")
	if !found {
		return "", fmt.Errorf("%w: %q, expected HH:MM", ErrInvalidDailyTime, timeStr)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: hour in %q", ErrInvalidDailyTime, timeStr)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("%w: minute in %q", ErrInvalidDailyTime, timeStr)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
