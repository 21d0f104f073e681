package background

import (
	"context"
	"fmt"
	"log"
	"time"

	"relancer/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler owns the two periodic sweeps. It is an explicit object
// with Start/Stop tied to the process lifecycle; only one instance
// should run the periodic jobs per deployment.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	dueSweep     *jobs.DueReminderSweep
	overdueSweep *jobs.OverdueSweep
	jobsByName   map[string]gocron.Job
}

// NewJobScheduler wires the sweeps onto cron schedules in the given
// location: the due-reminder sweep at hour:minute, the overdue sweep at
// 00:05.
func NewJobScheduler(dueSweep *jobs.DueReminderSweep, overdueSweep *jobs.OverdueSweep, location *time.Location, hour, minute int) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		dueSweep:     dueSweep,
		overdueSweep: overdueSweep,
		jobsByName:   make(map[string]gocron.Job),
	}

	if err := js.registerJobs(hour, minute); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs(hour, minute int) error {
	dueJob, err := js.scheduler.NewJob(
		gocron.CronJob(fmt.Sprintf("%d %d * * *", minute, hour), false),
		gocron.NewTask(js.runDueReminderSweep),
		gocron.WithName("due-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create due-reminders job: %w", err)
	}
	js.jobsByName["due-reminders"] = dueJob

	overdueJob, err := js.scheduler.NewJob(
		gocron.CronJob("5 0 * * *", false),
		gocron.NewTask(js.runOverdueSweep),
		gocron.WithName("overdue-invoices"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create overdue-invoices job: %w", err)
	}
	js.jobsByName["overdue-invoices"] = overdueJob

	log.Printf("Registered %d background jobs", len(js.jobsByName))
	return nil
}

// Start begins firing the registered jobs.
func (js *JobScheduler) Start() {
	log.Println("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop shuts the scheduler down, letting an in-flight tick finish.
func (js *JobScheduler) Stop() error {
	log.Println("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// The sweeps log their own outcomes; the scheduler driver consumes no
// return value.
func (js *JobScheduler) runDueReminderSweep() {
	if _, err := js.dueSweep.Run(context.Background()); err != nil {
		log.Printf("Due-reminder sweep run failed: %v", err)
	}
}

func (js *JobScheduler) runOverdueSweep() {
	if _, err := js.overdueSweep.Run(context.Background()); err != nil {
		log.Printf("Overdue-invoice sweep run failed: %v", err)
	}
}
