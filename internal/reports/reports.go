// Package reports is a client for the hosted phishing_reports table: users
// submit suspicious URLs and follow their review status by tracking id.
package reports

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/saumyapandey31/Phishnet/internal/util"
)

var (
	// ErrNotSignedIn is returned when no user session is configured.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrNotFound is returned when no report matches the tracking id for the user.
	ErrNotFound = errors.New("report not found")
	// ErrInvalidReason is returned for reasons outside Reasons.
	ErrInvalidReason = errors.New("invalid report reason")
)

// StatusUnderReview is the status assigned on submission.
const StatusUnderReview = "Under Review"

// Reasons lists the accepted report categories, default first.
var Reasons = []string{"fake-login", "malware", "scam-email", "other"}

// Report is one row of phishing_reports.
type Report struct {
	ReportID  string    `json:"report_id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Email     string    `json:"email,omitempty"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission is the user-provided part of a report.
type Submission struct {
	URL    string
	Email  string
	Reason string
}

// Repository is the table access used by Service.
type Repository interface {
	Insert(ctx context.Context, r Report) error
	FindByID(ctx context.Context, userID, reportID string) (Report, error)
	ListByUser(ctx context.Context, userID string) ([]Report, error)
}

// Service applies session scoping on top of a Repository.
type Service struct {
	repo   Repository
	userID string
	now    func() time.Time
	newID  func(time.Time) (string, error)
}

// NewService scopes repo to userID. An empty userID means signed out.
func NewService(repo Repository, userID string) *Service {
	return &Service{repo: repo, userID: userID, now: time.Now, newID: NewTrackingID}
}

// SignedIn reports whether a user session is present.
func (s *Service) SignedIn() bool { return s.userID != "" }

// Submit validates and stores a new report.
func (s *Service) Submit(ctx context.Context, sub Submission) (Report, error) {
	if !s.SignedIn() {
		return Report{}, ErrNotSignedIn
	}
	if _, err := util.Hostname(sub.URL); err != nil {
		return Report{}, fmt.Errorf("report url: %w", err)
	}
	reason := sub.Reason
	if reason == "" {
		reason = Reasons[0]
	}
	if !validReason(reason) {
		return Report{}, fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}

	now := s.now().UTC()
	id, err := s.newID(now)
	if err != nil {
		return Report{}, err
	}
	r := Report{
		ReportID:  id,
		UserID:    s.userID,
		URL:       strings.TrimSpace(sub.URL),
		Email:     strings.TrimSpace(sub.Email),
		Reason:    reason,
		Status:    StatusUnderReview,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, r); err != nil {
		return Report{}, fmt.Errorf("submit report: %w", err)
	}
	return r, nil
}

// Track returns the signed-in user's report with the given tracking id.
func (s *Service) Track(ctx context.Context, reportID string) (Report, error) {
	if !s.SignedIn() {
		return Report{}, ErrNotSignedIn
	}
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return Report{}, ErrNotFound
	}
	return s.repo.FindByID(ctx, s.userID, reportID)
}

// Mine lists the signed-in user's reports, newest first.
func (s *Service) Mine(ctx context.Context) ([]Report, error) {
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	return s.repo.ListByUser(ctx, s.userID)
}

func validReason(r string) bool {
	for _, v := range Reasons {
		if v == r {
			return true
		}
	}
	return false
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTrackingID returns RPT-<base36 unix millis>-<5 random base36 chars>.
func NewTrackingID(now time.Time) (string, error) {
	var suffix [5]byte
	max := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("tracking id: %w", err)
		}
		suffix[i] = base36[n.Int64()]
	}
	return "RPT-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + string(suffix[:]), nil
}
