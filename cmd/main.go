package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Leganyst/salon-platform/internal/config"
	"github.com/Leganyst/salon-platform/internal/db"
	"github.com/Leganyst/salon-platform/internal/lock"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/notify"
	"github.com/Leganyst/salon-platform/internal/repository"
	"github.com/Leganyst/salon-platform/internal/server"
	"github.com/Leganyst/salon-platform/internal/service"
)

func main() {
	logger := config.GetLogger()

	// 1. Загружаем конфиг из env.
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logger.Fatalf("load db config: %v", err)
	}
	appCfg := config.LoadAppConfig()

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		logger.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Замок организации: Redis в проде, локальный — без него.
	var locker lock.Locker = lock.NewLocalLocker()
	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: appCfg.RedisAddr})
		locker = lock.NewRedisLocker(rdb)
		defer rdb.Close()
	}

	// 5. Уведомления: Kafka, если заданы брокеры.
	var notifier notify.Notifier = notify.NoopNotifier{}
	if len(appCfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(appCfg.KafkaBrokers, appCfg.KafkaTopic, logger)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	// 6. Репозитории (реализации на GORM).
	orgRepo := repository.NewGormOrganizationRepository(gormDB)
	availRepo := repository.NewGormAvailabilityRepository(gormDB)
	staffRepo := repository.NewGormStaffRepository(gormDB)
	serviceRepo := repository.NewGormServiceRepository(gormDB)
	apptRepo := repository.NewGormAppointmentRepository(gormDB)
	walletRepo := repository.NewGormWalletRepository(gormDB)
	orderRepo := repository.NewGormOrderRepository(gormDB)
	productRepo := repository.NewGormProductRepository(gormDB)

	// 7. Сервисы ядра.
	organizationSvc := service.NewOrganizationService(orgRepo)
	availabilitySvc := service.NewAvailabilityService(gormDB, availRepo, orgRepo)
	staffSvc := service.NewStaffDirectory(gormDB, staffRepo, apptRepo, serviceRepo)
	catalogSvc := service.NewCatalogService(gormDB, serviceRepo, productRepo)
	ledgerSvc := service.NewLedgerService(gormDB, locker, walletRepo, orgRepo, logger)
	schedulingSvc := service.NewSchedulingService(gormDB, locker, apptRepo, serviceRepo, staffRepo, availabilitySvc, logger)
	appointmentSvc := service.NewAppointmentService(gormDB, locker, apptRepo, staffRepo, ledgerSvc, notifier, logger)
	orderSvc := service.NewOrderService(gormDB, locker, orderRepo, ledgerSvc, logger)

	// 8. HTTP-сервер.
	srv := server.New(organizationSvc, schedulingSvc, appointmentSvc, ledgerSvc, orderSvc, availabilitySvc, staffSvc, catalogSvc, logger)
	httpServer := &http.Server{
		Addr:    appCfg.HTTPAddr,
		Handler: srv.Router(appCfg.JWTSecret),
	}

	go func() {
		logger.Infof("core HTTP server listening on %s", appCfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http serve: %v", err)
		}
	}()

	// 9. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
}
