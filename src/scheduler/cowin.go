package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"

	cache "github.com/cowin-slot-checker/src/cache"
	database "github.com/cowin-slot-checker/src/database"
	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/render"
	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/slots"
)

const (
	requestTimeout = 30 * time.Second
	bulkChunk      = 500
	// DATETIME columns keep whole seconds
	purgeMargin = time.Minute
)

type LocationSource interface {
	GetStates(ctx context.Context) ([]model.State, error)
	GetDistricts(ctx context.Context, stateID int) ([]model.District, error)
}

type Directory interface {
	Refresh(states, districts []interface{}, cutoff time.Time, loadValue int) (int64, error)
}

type Subscriptions interface {
	ListSubscriptions() ([]database.Subscription, error)
}

type Searcher interface {
	Search(ctx context.Context, q search.Query) (slots.Result, error)
}

type Snapshots interface {
	Set(snapshot cache.Snapshot) error
	Get(watchID uint) (cache.Snapshot, bool, error)
}

type Notifier interface {
	Notify(chatID int64, messages []string) error
}

// Scheduler owns the worker's periodic jobs.
type Scheduler struct {
	Source        LocationSource
	Directory     Directory
	Subscriptions Subscriptions
	Searcher      Searcher
	Snapshots     Snapshots
	Notifier      Notifier
	Workers       int
	Now           func() time.Time

	refreshing int32
	watching   int32
}

// Register adds the jobs to c.
func (s *Scheduler) Register(c *cron.Cron) error {
	if err := c.AddFunc("@every 360h", s.RefreshLocationsTask); err != nil {
		return fmt.Errorf("scheduling location refresh: %w", err)
	}
	if err := c.AddFunc("@every 5m", s.WatchTask); err != nil {
		return fmt.Errorf("scheduling watch checks: %w", err)
	}
	return nil
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) pool() *workerpool.WorkerPool {
	workers := s.Workers
	if workers < 1 {
		workers = 5
	}
	return workerpool.New(workers)
}

// RefreshLocationsTask reloads the state and district directory and purges
// the rows of the previous refresh. A run still in progress makes it a no-op.
func (s *Scheduler) RefreshLocationsTask() {
	if !atomic.CompareAndSwapInt32(&s.refreshing, 0, 1) {
		log.Println("Location refresh still running, skipping")
		return
	}
	defer atomic.StoreInt32(&s.refreshing, 0)

	if err := s.RefreshLocations(context.Background()); err != nil {
		log.WithError(err).Errorln("Refreshing locations failed")
	}
}

func (s *Scheduler) RefreshLocations(ctx context.Context) error {
	start := s.now()
	log.Println("Refreshing States data")

	statesCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	states, err := s.Source.GetStates(statesCtx)
	cancel()
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return errors.New("input dataset for states is empty")
	}

	var mu sync.Mutex
	var districts []model.District
	var failed []int

	wp := s.pool()
	for _, state := range states {
		state := state
		wp.Submit(func() {
			reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()
			value, err := s.Source.GetDistricts(reqCtx, state.StateID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithError(err).Warnln("Skipping districts of state", state.StateID)
				failed = append(failed, state.StateID)
				return
			}
			districts = append(districts, value...)
		})
	}
	wp.StopWait()

	if len(failed) > 0 {
		return fmt.Errorf("districts of %d states could not be fetched, keeping previous directory", len(failed))
	}

	purged, err := s.Directory.Refresh(stateRecords(states), districtRecords(districts), start.Add(-purgeMargin), bulkChunk)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"states": len(states), "districts": len(districts), "purged": purged}).
		Infoln("Refresh Locations completed in: ", time.Since(start))
	return nil
}

// WatchTask checks every saved watch. A run still in progress makes it a no-op.
func (s *Scheduler) WatchTask() {
	if !atomic.CompareAndSwapInt32(&s.watching, 0, 1) {
		log.Println("Watch check still running, skipping")
		return
	}
	defer atomic.StoreInt32(&s.watching, 0)

	if err := s.CheckWatches(context.Background()); err != nil {
		log.WithError(err).Errorln("Checking watches failed")
	}
}

func (s *Scheduler) CheckWatches(ctx context.Context) error {
	start := time.Now()
	subscriptions, err := s.Subscriptions.ListSubscriptions()
	if err != nil {
		return err
	}
	log.Println("Checking", len(subscriptions), "watches")

	var notified int32
	wp := s.pool()
	for _, sub := range subscriptions {
		sub := sub
		wp.Submit(func() {
			sent, err := s.checkWatch(ctx, sub)
			if err != nil {
				log.WithError(err).WithField("watch", sub.ID).Warnln("Watch check failed")
				return
			}
			if sent {
				atomic.AddInt32(&notified, 1)
			}
		})
	}
	wp.StopWait()

	log.WithField("notified", notified).Infoln("Watch checks completed in: ", time.Since(start))
	return nil
}

// checkWatch runs the watch's search for the current week, notifies the chat
// when availability appeared, changed or is still owed from a failed delivery,
// then publishes the snapshot.
func (s *Scheduler) checkWatch(ctx context.Context, sub database.Subscription) (bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	checkedAt := s.now()
	query := QueryFor(sub, slots.DateOf(checkedAt))
	result, err := s.Searcher.Search(reqCtx, query)
	if err != nil && !errors.Is(err, search.ErrNoSlots) {
		return false, err
	}

	previous, seen, err := s.Snapshots.Get(sub.ID)
	if err != nil {
		return false, err
	}

	snapshot := cache.NewSnapshot(sub.ID, sub.Target(), result, checkedAt)
	announce := !result.Empty() && (!seen || previous.Pending || previous.Total != result.Total)
	var notifyErr error
	if announce {
		messages := append([]string{notificationHeader(sub, result)}, render.Messages(result, 5)...)
		notifyErr = s.Notifier.Notify(sub.ChatID, messages)
		snapshot.Pending = notifyErr != nil
	}

	if err := s.Snapshots.Set(snapshot); err != nil {
		return false, err
	}
	if notifyErr != nil {
		return false, notifyErr
	}
	return announce, nil
}
