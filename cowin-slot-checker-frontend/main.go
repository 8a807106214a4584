package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/cowin-slot-checker/src/bot"
	cache "github.com/cowin-slot-checker/src/cache"
	"github.com/cowin-slot-checker/src/config"
	database "github.com/cowin-slot-checker/src/database"
	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/search"
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

	redisClient, err := cache.CreateConnection(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalln(err)
	}
	defer redisClient.Connection.Close()

	client, err := model.NewCowinClient(cfg.CowinURL, cfg.CowinToken)
	if err != nil {
		log.Fatalln(err)
	}
	places, err := model.NewPostalCodeClient(cfg.PostalURL)
	if err != nil {
		log.Fatalln(err)
	}

	telegram, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalln(err)
	}
	telegram.Debug = cfg.Environment != "production"
	log.Printf("Authorized on account %s", telegram.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := telegram.GetUpdatesChan(u)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		telegram.StopReceivingUpdates()
	}()

	b := &bot.Bot{
		Sender:    telegram,
		Searcher:  search.NewService(client),
		Locations: database.Locations{Conn: conn},
		Places:    places,
		Store:     conn,
		Snapshots: cache.NewReJSONHandler(redisClient),
		Tracker:   search.NewTracker(),
	}
	b.Run(ctx, updates, cfg.Workers)
}
