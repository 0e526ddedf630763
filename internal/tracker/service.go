// Package tracker implements the record-mutation contract: the only three
// legal state transitions on the sorties record, the credential gate in front
// of them, and the change notifications that follow a successful write.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/models"
	"github.com/yourusername/tdv-tracker/internal/stats"
	"github.com/yourusername/tdv-tracker/internal/storage"
)

// Mutation event names passed to subscribers.
const (
	EventReplace = "sorties_replaced"
	EventAppend  = "sortie_added"
	EventDelete  = "sortie_deleted"
)

// Subscriber is notified after every successful mutation with a snapshot of
// the new record. Notification runs off the request path; failures are the
// subscriber's problem, never the mutation's.
type Subscriber interface {
	RecordChanged(event string, data *models.SortiesData)
}

// Service owns the mutation contract over one storage backend.
type Service struct {
	store       storage.Store
	secret      string
	tokens      *TokenIssuer
	validate    *validator.Validate
	log         *logrus.Logger
	subscribers []Subscriber
}

// NewService creates the tracker service. secret is the shared admin
// password; when empty every mutation is rejected.
func NewService(store storage.Store, secret string, tokens *TokenIssuer, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		secret:   secret,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

// Subscribe registers a change subscriber. Not safe to call after the
// service starts handling requests.
func (s *Service) Subscribe(sub Subscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// FetchRecord returns the current record. A failing backend read is logged
// and replaced with the default seed so the dashboard always has something to
// render.
func (s *Service) FetchRecord(ctx context.Context) *models.SortiesData {
	data, err := s.store.Read(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Storage read failed, serving default record")
		return models.DefaultData()
	}
	return data
}

// Authenticate checks the password and, on success, issues a capability
// token that stands in for it until expiry.
func (s *Service) Authenticate(password string) (string, time.Time, error) {
	if !s.secretMatches(password) {
		return "", time.Time{}, models.ErrUnauthorized
	}
	token, expires := s.tokens.Issue()
	return token, expires, nil
}

// ReplaceSorties overwrites the km field of every stored sortie whose id
// appears in the supplied list. Ids unknown to the record are ignored; ids
// absent from the list are left untouched. No other field changes through
// this path.
func (s *Service) ReplaceSorties(ctx context.Context, credential string, sorties []models.Sortie) error {
	if err := s.authorize(credential); err != nil {
		return err
	}

	data, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	byID := make(map[int]*float64, len(sorties))
	for _, sortie := range sorties {
		byID[sortie.ID] = sortie.Km
	}
	for i := range data.Sorties {
		if km, ok := byID[data.Sorties[i].ID]; ok {
			data.Sorties[i].Km = km
		}
	}

	if err := s.store.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to persist record: %w", err)
	}

	s.log.WithField("sorties", len(sorties)).Info("Sorties replaced")
	s.notify(EventReplace, data)
	return nil
}

// appendInput validates the append operation's payload before it reaches storage.
type appendInput struct {
	Date    string `validate:"required,datetime=2006-01-02"`
	Creneau string `validate:"required"`
}

// AppendSortie adds a new sortie with the next id and no recorded distance,
// then re-sorts the sequence by date. The new id is 1 + the highest id ever
// assigned that is still present, never a reused one.
func (s *Service) AppendSortie(ctx context.Context, credential, date, creneau string) (*models.Sortie, error) {
	if err := s.authorize(credential); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(appendInput{Date: date, Creneau: creneau}); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	data, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	sortie := models.Sortie{
		ID:      data.MaxID() + 1,
		Date:    date,
		Creneau: creneau,
	}
	data.Sorties = append(data.Sorties, sortie)
	data.SortByDate()

	if err := s.store.Write(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to persist record: %w", err)
	}

	s.log.WithFields(logrus.Fields{"id": sortie.ID, "date": date}).Info("Sortie added")
	s.notify(EventAppend, data)
	return &sortie, nil
}

// DeleteSortie removes the sortie with the given id. Deleting an absent id
// is a no-op, not an error.
func (s *Service) DeleteSortie(ctx context.Context, credential string, id int) error {
	if err := s.authorize(credential); err != nil {
		return err
	}

	data, err := s.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	kept := data.Sorties[:0]
	for _, sortie := range data.Sorties {
		if sortie.ID != id {
			kept = append(kept, sortie)
		}
	}
	data.Sorties = kept

	if err := s.store.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to persist record: %w", err)
	}

	s.log.WithField("id", id).Info("Sortie deleted")
	s.notify(EventDelete, data)
	return nil
}

// CheckEntry poses the arithmetic gate for recording a distance on the
// sortie at the given stored index: the caller's answer must equal the
// distance remaining before that sortie minus the entered distance.
func (s *Service) CheckEntry(ctx context.Context, index int, entered, answer float64) (kmBefore float64, ok bool) {
	data := s.FetchRecord(ctx)
	kmBefore = stats.KmBeforeSortie(data, index)
	return kmBefore, stats.CheckEntry(kmBefore, entered, answer)
}

// authorize accepts either a live capability token or the shared password.
// It runs before any storage access, identically for all three mutations.
func (s *Service) authorize(credential string) error {
	if s.tokens != nil && s.tokens.Valid(credential) {
		return nil
	}
	if !s.secretMatches(credential) {
		return models.ErrUnauthorized
	}
	return nil
}

// secretMatches compares trimmed credentials. An unconfigured secret rejects
// everything; it never default-allows.
func (s *Service) secretMatches(supplied string) bool {
	configured := strings.TrimSpace(s.secret)
	if configured == "" {
		return false
	}
	return strings.TrimSpace(supplied) == configured
}

// notify fans the new record out to subscribers off the request path. Each
// subscriber gets its own deep copy.
func (s *Service) notify(event string, data *models.SortiesData) {
	for _, sub := range s.subscribers {
		go sub.RecordChanged(event, data.Clone())
	}
}
