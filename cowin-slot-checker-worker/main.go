package main

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"

	"github.com/cowin-slot-checker/src/bot"
	cache "github.com/cowin-slot-checker/src/cache"
	"github.com/cowin-slot-checker/src/config"
	database "github.com/cowin-slot-checker/src/database"
	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/scheduler"
	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	conn, err := database.CreateConnection(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName)
	if err != nil {
		log.Fatalln(err)
	}
	defer conn.Close()
	if err := conn.AutoMigrateTables(database.Tables()...); err != nil {
		log.Fatalln(err)
	}

	redisClient, err := cache.CreateConnection(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalln(err)
	}
	defer redisClient.Connection.Close()

	client, err := model.NewCowinClient(cfg.CowinURL, cfg.CowinToken)
	if err != nil {
		log.Fatalln(err)
	}

	telegram, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalln("Connecting to telegram:", err)
	}

	jobs := &scheduler.Scheduler{
		Source:        client,
		Directory:     conn,
		Subscriptions: conn,
		Searcher:      search.NewService(client),
		Snapshots:     cache.NewReJSONHandler(redisClient),
		Notifier:      bot.Notifier{Sender: telegram},
		Workers:       cfg.Workers,
	}

	go func() {
		log.Println("Launching Background Processes to Refresh data after application restarts")
		jobs.RefreshLocationsTask()
		jobs.WatchTask()
	}()

	schedule := cron.New()
	log.Println("Scheduling the background jobs")
	if err := jobs.Register(schedule); err != nil {
		log.Fatalln(err)
	}
	log.Println("Scheduling Completed")
	schedule.Start()
	defer schedule.Stop()

	http.HandleFunc("/status", web.Status)
	log.Fatalln(http.ListenAndServe(":"+cfg.Port, nil))
}
