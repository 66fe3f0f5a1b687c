package subscriptions_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/JaimeStill/clausewise/internal/subscriptions"
	"github.com/JaimeStill/clausewise/pkg/identity"
)

var (
	now     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future  = now.Add(24 * time.Hour)
	past    = now.Add(-time.Hour)
	columns = []string{"owner_id", "plan", "status", "current_period_end", "updated_at"}
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clock() time.Time { return now }

func TestIsPremium(t *testing.T) {
	tests := []struct {
		name string
		sub  subscriptions.Subscription
		want bool
	}{
		{"pro active", subscriptions.Subscription{Plan: "pro", Status: "active", CurrentPeriodEnd: &future}, true},
		{"enterprise trialing", subscriptions.Subscription{Plan: "enterprise", Status: "trialing", CurrentPeriodEnd: &future}, true},
		{"no period end", subscriptions.Subscription{Plan: "pro", Status: "active"}, true},
		{"free active", subscriptions.Subscription{Plan: "free", Status: "active"}, false},
		{"pro canceled", subscriptions.Subscription{Plan: "pro", Status: "canceled", CurrentPeriodEnd: &future}, false},
		{"pro past due", subscriptions.Subscription{Plan: "pro", Status: "past_due"}, false},
		{"pro expired", subscriptions.Subscription{Plan: "pro", Status: "active", CurrentPeriodEnd: &past}, false},
		{"period ends now", subscriptions.Subscription{Plan: "pro", Status: "active", CurrentPeriodEnd: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsPremium(now); got != tt.want {
				t.Errorf("IsPremium() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSystemIsPremium(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		err  error
		want bool
	}{
		{
			name: "paid subscription",
			rows: sqlmock.NewRows(columns).AddRow("user-1", "pro", "active", future, now),
			want: true,
		},
		{
			name: "expired period",
			rows: sqlmock.NewRows(columns).AddRow("user-1", "pro", "active", past, now),
		},
		{
			name: "null period end",
			rows: sqlmock.NewRows(columns).AddRow("user-1", "enterprise", "trialing", nil, now),
			want: true,
		},
		{
			name: "no record is free",
			rows: sqlmock.NewRows(columns),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery("SELECT .+ FROM subscriptions s WHERE s.owner_id = \\$1 LIMIT 1").
				WithArgs("user-1").
				WillReturnRows(tt.rows)

			sys := subscriptions.New(db, discard(), clock)
			got, err := sys.IsPremium(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("IsPremium: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsPremium() = %v, want %v", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSystemIsPremiumQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT .+ FROM subscriptions").WillReturnError(boom)

	sys := subscriptions.New(db, discard(), clock)
	if _, err := sys.IsPremium(context.Background(), "user-1"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM subscriptions").WillReturnRows(sqlmock.NewRows(columns))

	sys := subscriptions.New(db, discard(), clock)
	if _, err := sys.Find(context.Background(), "ghost"); !errors.Is(err, subscriptions.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHandlerCurrent(t *testing.T) {
	tests := []struct {
		name       string
		owner      string
		rows       *sqlmock.Rows
		wantStatus int
		want       subscriptions.Entitlement
	}{
		{
			name:       "premium",
			owner:      "user-1",
			rows:       sqlmock.NewRows(columns).AddRow("user-1", "pro", "active", future, now),
			wantStatus: http.StatusOK,
			want:       subscriptions.Entitlement{Plan: "pro", Status: "active", Premium: true},
		},
		{
			name:       "implicit free",
			owner:      "user-2",
			rows:       sqlmock.NewRows(columns),
			wantStatus: http.StatusOK,
			want:       subscriptions.Entitlement{Plan: "free", Status: "active"},
		},
		{
			name:       "anonymous",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()

			if tt.rows != nil {
				mock.ExpectQuery("SELECT .+ FROM subscriptions").WithArgs(tt.owner).WillReturnRows(tt.rows)
			}

			h := subscriptions.New(db, discard(), clock).Handler()

			req := httptest.NewRequest(http.MethodGet, "/subscription", nil)
			if tt.owner != "" {
				req = req.WithContext(identity.WithOwner(req.Context(), tt.owner))
			}
			rec := httptest.NewRecorder()
			h.Current(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got subscriptions.Entitlement
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("entitlement = %+v, want %+v", got, tt.want)
			}
		})
	}
}
