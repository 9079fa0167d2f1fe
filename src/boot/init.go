package boot

import (
	"context"
	"livevibe/src/config"
	"livevibe/src/db"
	"livevibe/src/lib"
	"livevibe/src/models"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventSeatType{},
		&models.Ticket{},
		&models.Order{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the periodic orphan-order sweep and starts the
// scheduler. ORPHAN_SWEEP_INTERVAL=0 disables the sweep.
func InitScheduler(sweep func(ctx context.Context) (int64, error)) {
	interval := config.GetEnvAsDuration("ORPHAN_SWEEP_INTERVAL", time.Hour)
	if interval <= 0 {
		log.Println("Orphan order sweep disabled")
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.CreateCronJob("sweep-orphan-orders", interval, func() {
		n, err := sweep(context.Background())
		if err != nil {
			log.Printf("Error sweeping orphan orders: %s\n", err.Error())
			return
		}
		if n > 0 {
			log.Printf("Swept %d orphan orders\n", n)
		}
	})
	if err != nil {
		log.Printf("Error scheduling orphan order sweep: %s\n", err.Error())
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
