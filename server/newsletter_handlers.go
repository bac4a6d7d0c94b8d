package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-pkgz/rest/realip"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/repository"
)

// user facing messages, shown by the subscription form as is
const (
	msgSubscribed   = "Thanks for subscribing! Check your inbox for a confirmation."
	msgTooMany      = "Too many requests. Please try again later."
	msgFailed       = "Failed to subscribe"
	msgEmailMissing = "Email is required"
	msgEmailInvalid = "Invalid email format"
)

const (
	maxEmailLength   = 254
	defaultSubSource = "website"
)

var (
	emailRe = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

	defaultSubTags = []string{"weekly-digest"}
)

type subscribeRequest struct {
	Email  string   `json:"email"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

// subscribeHandler registers newsletter subscriber. Response doesn't reveal whether email was known.
func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ip, err := realip.Get(r)
	if err != nil {
		ip = r.RemoteAddr
	}
	res, err := s.limiter.Allow(ctx, "newsletter:"+ip)
	if err != nil {
		log.Printf("[WARN] rate limit check failed for %s: %v", ip, err)
	}
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	if !res.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter()))
		renderMessage(w, r, http.StatusTooManyRequests, msgTooMany)
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	email, msg := normalizeEmail(req.Email)
	if msg != "" {
		renderMessage(w, r, http.StatusBadRequest, msg)
		return
	}

	if err := s.subscribe(ctx, email, req); err != nil {
		log.Printf("[ERROR] failed to subscribe %s: %v", email, err)
		renderMessage(w, r, http.StatusInternalServerError, msgFailed)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"success": true, "message": msgSubscribed})
}

// subscribe creates subscriber or reactivates unsubscribed one, other known statuses are left as is
func (s *Server) subscribe(ctx context.Context, email string, req subscribeRequest) error {
	existing, err := s.subscribers.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.Status == domain.SubscriberUnsubscribed:
		if err := s.subscribers.Reactivate(ctx, existing.ID); err != nil {
			return fmt.Errorf("reactivate: %w", err)
		}
		log.Printf("[INFO] reactivated subscriber %d", existing.ID)
		return nil
	case err == nil:
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("find: %w", err)
	}

	sub := &domain.Subscriber{Email: email, Status: domain.SubscriberActive, Source: req.Source, Tags: req.Tags}
	if sub.Source == "" {
		sub.Source = defaultSubSource
	}
	if len(sub.Tags) == 0 {
		sub.Tags = defaultSubTags
	}
	if err := s.subscribers.CreateSubscriber(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil // concurrent request created it
		}
		return fmt.Errorf("create: %w", err)
	}
	log.Printf("[INFO] new subscriber %d from %s", sub.ID, sub.Source)
	return nil
}

// normalizeEmail trims, validates and lower-cases email address, returns rejection message if invalid
func normalizeEmail(email string) (normalized, msg string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", msgEmailMissing
	}
	if len(email) > maxEmailLength || !emailRe.MatchString(email) {
		return "", msgEmailInvalid
	}
	return strings.ToLower(email), ""
}

func renderMessage(w http.ResponseWriter, r *http.Request, code int, msg string) {
	renderJSON(w, r, code, map[string]string{"error": msg})
}
