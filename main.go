package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spencer-p/sundial/pkg/data"
	"github.com/spencer-p/sundial/pkg/handlers"
	"github.com/spencer-p/sundial/pkg/metrics"
	"github.com/spencer-p/sundial/pkg/sunset"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`
	Debug  bool   `default:"false"`

	PlaceName string  `split_words:"true" default:"Penza"`
	Lat       float64 `default:"53.183968"`
	Lon       float64 `default:"43.981667"`
	UTC       int     `default:"3"`
	DST       int     `default:"0"`

	CacheTTL           time.Duration `split_words:"true" default:"10m"`
	SessionKey         string        `split_words:"true" default:"deadbeef"`
	EncryptionPassword string        `split_words:"true" default:"deadbeef"`

	data.PostgresConfig
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	logger, err := newLogger(env.Debug)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	var history handlers.History
	if env.PostgresConfig.Enabled() {
		store, err := data.OpenPostgres(env.PostgresConfig)
		if err != nil {
			logger.Fatal("failed to open history", zap.Error(err))
		}
		history = store
	} else {
		logger.Info("PGHOST not set, history disabled")
	}

	srvHandlers := handlers.New(handlers.Options{
		Prefix: env.Prefix,
		DefaultPlace: sunset.Place{
			Name:      env.PlaceName,
			Lat:       env.Lat,
			Long:      env.Lon,
			UTCOffset: env.UTC,
			DST:       env.DST,
		},
		CacheTTL:      env.CacheTTL,
		SessionKey:    []byte(env.SessionKey),
		EncryptionKey: handlers.EncryptionKey(env.EncryptionPassword),
	}, logger, history)

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	r.Handle("/metrics", promhttp.Handler())
	s := r.PathPrefix(env.Prefix).Subrouter()
	srvHandlers.Register(s)

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	logger.Info("listening and serving",
		zap.String("addr", srv.Addr),
		zap.String("prefix", env.Prefix))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
