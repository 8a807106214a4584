package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gomodule/redigo/redis"
	rejson "github.com/nitishm/go-rejson/v4"
	"github.com/nitishm/go-rejson/v4/rjs"
	log "github.com/sirupsen/logrus"

	"github.com/cowin-slot-checker/src/render"
	"github.com/cowin-slot-checker/src/slots"
)

// RootKey holds every published snapshot, one JSON path per watch.
const RootKey = "cowin"

type RedisConnection struct {
	Connection *goredis.Client
}

func CreateConnection(address, password string) (*RedisConnection, error) {
	conn := goredis.NewClient(&goredis.Options{
		Addr:     address,
		Password: password,
		DB:       0,
	})
	if err := conn.Ping(context.Background()).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", address, err)
	}
	return &RedisConnection{Connection: conn}, nil
}

// JSONStore is the part of the ReJSON handler the snapshot store uses.
type JSONStore interface {
	JSONSet(key string, path string, obj interface{}, opts ...rjs.SetOption) (interface{}, error)
	JSONGet(key, path string, opts ...rjs.GetOption) (interface{}, error)
	JSONDel(key string, path string) (interface{}, error)
}

type RedisHandler struct {
	Handler JSONStore
}

func NewReJSONHandler(conn *RedisConnection) *RedisHandler {
	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(conn.Connection)
	return &RedisHandler{Handler: handler}
}

// Day is one populated cell of a published row.
type Day struct {
	Date      string `json:"date"`
	Available int    `json:"available"`
	Vaccine   string `json:"vaccine"`
}

type Row struct {
	Center string `json:"center"`
	Days   []Day  `json:"days"`
}

// Snapshot is the current result set of one watch. Each check replaces it.
type Snapshot struct {
	WatchID   uint      `json:"watch_id"`
	Target    string    `json:"target"`
	Total     int       `json:"total"`
	Rows      []Row     `json:"rows"`
	CheckedAt time.Time `json:"checked_at"`
	// Pending marks availability the watch's chat has not been told about yet.
	Pending bool `json:"pending,omitempty"`
}

// NewSnapshot flattens result into its published form.
func NewSnapshot(watchID uint, target string, result slots.Result, checkedAt time.Time) Snapshot {
	snapshot := Snapshot{WatchID: watchID, Target: target, Total: result.Total, CheckedAt: checkedAt, Rows: []Row{}}
	for _, row := range result.Rows {
		r := Row{Center: render.CenterLabel(row.Center)}
		for i, c := range row.Cells {
			if c != nil {
				r.Days = append(r.Days, Day{Date: result.Window[i].String(), Available: c.Available, Vaccine: c.Vaccine})
			}
		}
		snapshot.Rows = append(snapshot.Rows, r)
	}
	return snapshot
}

func watchPath(watchID uint) string {
	return ".w" + strconv.FormatUint(uint64(watchID), 10)
}

// ensureRoot creates the root document once; NX leaves an existing one alone.
func (rh *RedisHandler) ensureRoot() error {
	_, err := rh.Handler.JSONSet(RootKey, ".", map[string]interface{}{}, rjs.SetOptionNX)
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("creating %s root document: %w", RootKey, err)
	}
	return nil
}

// Set publishes snapshot, replacing the previous one of the same watch.
func (rh *RedisHandler) Set(snapshot Snapshot) error {
	start := time.Now()
	if err := rh.ensureRoot(); err != nil {
		return err
	}
	result, err := rh.Handler.JSONSet(RootKey, watchPath(snapshot.WatchID), snapshot)
	if err != nil {
		return fmt.Errorf("publishing snapshot of watch %d: %w", snapshot.WatchID, err)
	}
	if status, ok := result.(string); !ok || status != "OK" {
		return fmt.Errorf("publishing snapshot of watch %d: unexpected reply %v", snapshot.WatchID, result)
	}
	log.Debugln("Updating cache for watch", snapshot.WatchID, "completed in: ", time.Since(start))
	return nil
}

// Get returns the last published snapshot of watchID; ok is false when none
// exists yet.
func (rh *RedisHandler) Get(watchID uint) (snapshot Snapshot, ok bool, err error) {
	records, err := redis.Bytes(rh.Handler.JSONGet(RootKey, watchPath(watchID)))
	if err != nil {
		if errors.Is(err, goredis.Nil) || errors.Is(err, redis.ErrNil) || isMissingPath(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("reading snapshot of watch %d: %w", watchID, err)
	}
	if err := json.Unmarshal(records, &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("decoding snapshot of watch %d: %w", watchID, err)
	}
	return snapshot, true, nil
}

// Delete drops the snapshot of watchID, if any.
func (rh *RedisHandler) Delete(watchID uint) error {
	_, err := rh.Handler.JSONDel(RootKey, watchPath(watchID))
	if err != nil && !errors.Is(err, goredis.Nil) && !isMissingPath(err) {
		return fmt.Errorf("deleting snapshot of watch %d: %w", watchID, err)
	}
	return nil
}

// isMissingPath matches the ReJSON error for a path or key that does not exist.
func isMissingPath(err error) bool {
	var redisErr goredis.Error
	if !errors.As(err, &redisErr) {
		return false
	}
	msg := strings.ToLower(redisErr.Error())
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "missing")
}
