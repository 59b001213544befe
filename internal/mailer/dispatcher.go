package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	"github.com/frahmantamala/applicant-tracking/internal/user"
	"golang.org/x/time/rate"
)

var ErrQueueFull = errors.New("email queue full")

type EmailJob struct {
	NotificationID int64
	UserID         int64
	Title          string
	Message        string
}

// Outbox is the notification side of email delivery.
type Outbox interface {
	MarkEmailSent(ctx context.Context, id int64) error
	ListEmailPending(ctx context.Context, limit int) ([]*notification.Notification, error)
}

type RecipientLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Config struct {
	From          string
	SendTimeout   time.Duration
	MaxWorkers    int
	JobQueueSize  int
	RatePerSecond float64
}

type Worker struct {
	ID         int
	WorkerPool chan chan EmailJob
	JobChannel chan EmailJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan EmailJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan EmailJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(EmailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("mail worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("mail worker processing job", "worker_id", w.ID, "notification_id", job.NotificationID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("mail worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher delivers notification emails through a bounded worker pool,
// throttled to the provider's rate limit.
type Dispatcher struct {
	sender      Sender
	outbox      Outbox
	recipients  RecipientLookup
	limiter     *rate.Limiter
	from        string
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan EmailJob
	workerPool chan chan EmailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(config Config, sender Sender, outbox Outbox, recipients RecipientLookup, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = slog.Default()
	}

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	ratePerSecond := config.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 5
	}
	burst := int(ratePerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Dispatcher{
		sender:      sender,
		outbox:      outbox,
		recipients:  recipients,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		from:        config.From,
		sendTimeout: config.SendTimeout,
		logger:      logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan EmailJob, jobQueueSize),
		workerPool: make(chan chan EmailJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (d *Dispatcher) Start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.process)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("mail worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue),
			"rate_per_second", float64(d.limiter.Limit()))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					d.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

// Shutdown stops the workers. Queued jobs that were not picked up stay
// unsent and are found again by the next Sweep.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down mail dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("mail dispatcher shutdown complete")
}

func (d *Dispatcher) Enqueue(job EmailJob) error {
	select {
	case d.jobQueue <- job:
		return nil
	default:
		d.logger.Warn("email queue full, leaving notification for the next sweep",
			"notification_id", job.NotificationID,
			"queue_capacity", cap(d.jobQueue))
		return ErrQueueFull
	}
}

// HandleNotificationCreated is the event bus handler for notification.created.
func (d *Dispatcher) HandleNotificationCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.NotificationCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	return d.Enqueue(EmailJob{
		NotificationID: e.NotificationID,
		UserID:         e.UserID,
		Title:          e.Title,
		Message:        e.Message,
	})
}

// Sweep queues notifications that were never emailed, up to limit. It returns
// how many were queued.
func (d *Dispatcher) Sweep(ctx context.Context, limit int) (int, error) {
	pending, err := d.outbox.ListEmailPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending emails: %w", err)
	}

	queued := 0
	for _, n := range pending {
		job := EmailJob{NotificationID: n.ID, UserID: n.UserID, Title: n.Title, Message: n.Message}
		if err := d.Enqueue(job); err != nil {
			break
		}
		queued++
	}
	if queued > 0 {
		d.logger.Info("pending emails queued", "count", queued, "pending", len(pending))
	}
	return queued, nil
}

func (d *Dispatcher) process(job EmailJob) {
	if err := d.limiter.Wait(d.ctx); err != nil {
		d.logger.Info("email job cancelled", "notification_id", job.NotificationID)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout())
	defer cancel()

	recipient, err := d.recipients.GetByID(ctx, job.UserID)
	if err != nil {
		d.logger.Error("email recipient lookup failed", "error", err, "notification_id", job.NotificationID, "user_id", job.UserID)
		return
	}
	if !recipient.IsActive() {
		// Closed accounts never receive mail, settle the row so sweeps move past it.
		if err := d.outbox.MarkEmailSent(ctx, job.NotificationID); err != nil {
			d.logger.Error("failed to settle email for closed account", "error", err, "notification_id", job.NotificationID)
			return
		}
		d.logger.Debug("skipped email for closed account", "notification_id", job.NotificationID, "user_id", job.UserID)
		return
	}

	msg := Message{
		From:    d.from,
		To:      recipient.Email,
		Subject: job.Title,
		Text:    job.Message,
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("email delivery failed", "error", err, "notification_id", job.NotificationID)
		return
	}

	if err := d.outbox.MarkEmailSent(ctx, job.NotificationID); err != nil {
		d.logger.Error("failed to mark email sent", "error", err, "notification_id", job.NotificationID)
		return
	}

	d.logger.Info("email delivered", "notification_id", job.NotificationID, "user_id", job.UserID)
}

func (d *Dispatcher) timeout() time.Duration {
	if d.sendTimeout <= 0 {
		return 10 * time.Second
	}
	return d.sendTimeout
}
