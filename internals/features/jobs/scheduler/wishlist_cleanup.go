package scheduler

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Cleaner is implemented by the wishlist service.
type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

const cleanupTimeout = 2 * time.Minute

// StartWishlistCleanup runs cleaner on the cron schedule. An empty schedule
// disables it and returns a nil cron; the caller stops a non-nil one.
func StartWishlistCleanup(schedule string, cleaner Cleaner) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Println("[INFO] wishlist cleanup schedule not set, skipping")
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { runCleanup(cleaner) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[INFO] wishlist cleanup scheduled %q", schedule)
	return c, nil
}

func runCleanup(cleaner Cleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if _, err := cleaner.Cleanup(ctx); err != nil {
		log.Printf("[ERROR] wishlist cleanup: %v", err)
	}
}
