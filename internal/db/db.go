package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and bootstraps the schema.
func Init() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("unable to connect to database: %v", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("unable to ping database: %v", err)
	}

	log.Info("connected to Postgres")

	ensureUsersTable()
	ensureJobsTable()
	ensureBidsTable()
	ensureBookingsTable()
	ensurePaymentRecordsTable()
	ensureConversationsTables()
	ensureReviewsTable()
	ensureNotificationsTable()
	ensureDisputesTable()
}

// Close releases the pool. Safe to call on shutdown even if Init failed.
func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('hirer', 'worker', 'admin')),
            bio TEXT,
            avatar_url TEXT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            completed_jobs INTEGER NOT NULL DEFAULT 0,
            total_earned NUMERIC(12,2) NOT NULL DEFAULT 0,
            total_spent NUMERIC(12,2) NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Errorf("failed to ensure users table: %v", err)
	}
}

func ensureJobsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS jobs (
            id UUID PRIMARY KEY,
            hirer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT NOT NULL,
            category TEXT,
            budget NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN (
                'draft', 'posted', 'in_review', 'assigned', 'in_progress', 'completed', 'cancelled'
            )),
            assigned_worker_id UUID NULL REFERENCES users(id) ON DELETE SET NULL,
            bid_count INTEGER NOT NULL DEFAULT 0,
            scheduled_start TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_jobs_hirer ON jobs(hirer_id);
        CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
    `)
	if err != nil {
		log.Errorf("failed to ensure jobs table: %v", err)
	}
}

func ensureBidsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS bids (
            id UUID PRIMARY KEY,
            job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
            worker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount NUMERIC(12,2) NOT NULL,
            message TEXT,
            estimated_hours INTEGER,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN (
                'pending', 'accepted', 'rejected', 'withdrawn'
            )),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (job_id, worker_id)
        );
        CREATE INDEX IF NOT EXISTS idx_bids_job ON bids(job_id);
        CREATE INDEX IF NOT EXISTS idx_bids_worker ON bids(worker_id);
    `)
	if err != nil {
		log.Errorf("failed to ensure bids table: %v", err)
	}
}

func ensureBookingsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS bookings (
            id UUID PRIMARY KEY,
            job_id UUID NOT NULL UNIQUE REFERENCES jobs(id) ON DELETE CASCADE,
            bid_id UUID NOT NULL UNIQUE REFERENCES bids(id) ON DELETE CASCADE,
            hirer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            worker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            agreed_amount NUMERIC(12,2) NOT NULL,
            final_amount NUMERIC(12,2) NULL,
            status TEXT NOT NULL DEFAULT 'confirmed' CHECK (status IN (
                'confirmed', 'in_progress', 'completed', 'cancelled', 'disputed'
            )),
            payment_status TEXT NOT NULL DEFAULT 'pending' CHECK (payment_status IN (
                'pending', 'paid', 'refunded'
            )),
            scheduled_start TIMESTAMP WITH TIME ZONE,
            actual_start TIMESTAMP WITH TIME ZONE NULL,
            completed_at TIMESTAMP WITH TIME ZONE NULL,
            cancelled_at TIMESTAMP WITH TIME ZONE NULL,
            cancel_reason TEXT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_bookings_hirer ON bookings(hirer_id);
        CREATE INDEX IF NOT EXISTS idx_bookings_worker ON bookings(worker_id);
    `)
	if err != nil {
		log.Errorf("failed to ensure bookings table: %v", err)
	}
}

func ensurePaymentRecordsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS payment_records (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount NUMERIC(12,2) NOT NULL,
            type TEXT NOT NULL CHECK (type IN ('escrow_hold', 'completed', 'refund')),
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'failed')),
            external_id TEXT,
            provider TEXT NOT NULL DEFAULT 'payvault',
            metadata JSONB NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_payment_records_booking ON payment_records(booking_id);
        CREATE INDEX IF NOT EXISTS idx_payment_records_external ON payment_records(external_id);
    `)
	if err != nil {
		log.Errorf("failed to ensure payment_records table: %v", err)
	}
}

func ensureConversationsTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS conversations (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL UNIQUE REFERENCES bookings(id) ON DELETE CASCADE,
            hirer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            worker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
            sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
    `)
	if err != nil {
		log.Errorf("failed to ensure conversations tables: %v", err)
	}
}

func ensureReviewsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            booking_id UUID NOT NULL UNIQUE REFERENCES bookings(id) ON DELETE CASCADE,
            hirer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            worker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_worker ON reviews(worker_id);
    `)
	if err != nil {
		log.Errorf("failed to ensure reviews table: %v", err)
	}
}

func ensureNotificationsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT,
            reference UUID NULL,
            action_url TEXT NULL,
            metadata JSONB NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Errorf("failed to ensure notifications table: %v", err)
	}
}

func ensureDisputesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS disputes (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
            filer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reason TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'resolved')),
            resolution TEXT NULL CHECK (resolution IN ('completed', 'cancelled')),
            notes TEXT NULL,
            resolved_by UUID NULL REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            resolved_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_disputes_booking ON disputes(booking_id);
        CREATE INDEX IF NOT EXISTS idx_disputes_status ON disputes(status);
    `)
	if err != nil {
		log.Errorf("failed to ensure disputes table: %v", err)
	}
}
