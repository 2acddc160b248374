// Package main — точка входа сервиса репутации.
// Загружает конфигурацию, инициализирует приложение, запускает планировщик
// и HTTP-эндпоинт метрик. Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/app"
	"serotonyl.ru/reputation/internal/config"
)

func main() {
	setupLogging()

	log.Info("=== Сервис репутации запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	// Устанавливаем уровень логирования из конфига
	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.DB.Close()

	// Планировщик фоновых задач (cron)
	application.Scheduler.Start(ctx)

	// Метрики Prometheus
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsListenAddr, nil); err != nil {
			log.WithError(err).Error("HTTP-сервер метрик остановился")
		}
	}()

	log.Info("=== Сервис репутации готов к работе ===")

	// Ждём сигнала остановки (Ctrl+C, docker stop)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infof("Получен сигнал %s, останавливаемся...", sig)

	// Сначала дожидаемся остановки планировщика, потом гасим контекст:
	// задача, начатая до сигнала, должна доработать с живым контекстом
	application.Scheduler.Stop()
	cancel()

	log.Info("=== Сервис репутации остановлен ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
