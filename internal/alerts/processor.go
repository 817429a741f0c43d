package alerts

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"github.com/crewlink-dev/crewlink/internal/config"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init() {
	opts := asynq.RedisClientOpt{Addr: config.RedisAddr()}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskPasswordReset, handlePasswordReset)
	mux.HandleFunc(TaskBidResolved, handleBidResolved)
	mux.HandleFunc(TaskBookingUpdate, handleBookingUpdate)
	mux.HandleFunc(TaskPaymentFailed, handlePaymentFailed)
	mux.HandleFunc(TaskRefundIssued, handleRefundIssued)
	mux.HandleFunc(TaskMessageNew, handleMessageNew)
	mux.HandleFunc(TaskAdminAlert, handleAdminAlert)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
			"alerts": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Errorf("asynq server stopped: %v", err)
		}
	}()

	log.Infof("asynq initialized (addr=%s)", config.RedisAddr())
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// Handlers below parse payloads and hand the envelope to the mailer.

func handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] WelcomeEmail send failed: %v", err)
		return err
	}
	log.Infof("[notify] WelcomeEmail sent -> to=%s user=%s", p.Email, p.UserID)
	return nil
}

func handlePasswordReset(_ context.Context, t *asynq.Task) error {
	var p PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] PasswordReset send failed: %v", err)
		return err
	}
	log.Infof("[notify] PasswordReset sent -> to=%s", p.Email)
	return nil
}

func handleBidResolved(_ context.Context, t *asynq.Task) error {
	var p BidResolvedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] BidResolved send failed: %v", err)
		return err
	}
	log.Infof("[notify] BidResolved sent -> bid=%s outcome=%s to=%s", p.BidID, p.Outcome, p.Email)
	return nil
}

func handleBookingUpdate(_ context.Context, t *asynq.Task) error {
	var p BookingUpdatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] BookingUpdate send failed: %v", err)
		return err
	}
	log.Infof("[notify] BookingUpdate sent -> booking=%s status=%s to=%s", p.BookingID, p.Status, p.Email)
	return nil
}

func handlePaymentFailed(_ context.Context, t *asynq.Task) error {
	var p PaymentFailedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] PaymentFailed send failed: %v", err)
		return err
	}
	log.Infof("[notify] PaymentFailed sent -> booking=%s to=%s", p.BookingID, p.Email)
	return nil
}

func handleRefundIssued(_ context.Context, t *asynq.Task) error {
	var p RefundIssuedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] RefundIssued send failed: %v", err)
		return err
	}
	log.Infof("[notify] RefundIssued sent -> booking=%s to=%s", p.BookingID, p.Email)
	return nil
}

func handleMessageNew(_ context.Context, t *asynq.Task) error {
	var p MessageNewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] MessageNew send failed: %v", err)
		return err
	}
	log.Infof("[notify] MessageNew sent -> booking=%s to=%s", p.BookingID, p.Email)
	return nil
}

func handleAdminAlert(_ context.Context, t *asynq.Task) error {
	var p AdminAlertPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Errorf("[notify] AdminAlert send failed: %v", err)
		return err
	}
	log.Infof("[notify] AdminAlert sent -> severity=%s by=%s", p.Severity, p.ActorID)
	return nil
}
