package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/oancholarevelo/invoice-builder/assets"
	"github.com/oancholarevelo/invoice-builder/invoice"
)

// DefaultSessionTTL is how long an idle editing session survives before it
// is discarded along with its uploaded logo.
const DefaultSessionTTL = 2 * time.Hour

const sessionCleanupInterval = 10 * time.Minute

// Session is one invoice editing visit: a transient in-memory document
// plus the asset key of the logo uploaded during the visit, if any.
// Nothing is persisted; the session disappears on expiry or explicit end.
type Session struct {
	ID         string
	ProfileKey string

	mu      sync.Mutex
	doc     *invoice.Document
	logoKey string
}

// Update runs fn against the session document under the session lock and
// returns a snapshot of the document afterwards.
func (s *Session) Update(fn func(doc *invoice.Document) error) (invoice.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		return invoice.Document{}, err
	}
	return snapshot(s.doc), nil
}

// Document returns a snapshot of the current document.
func (s *Session) Document() invoice.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.doc)
}

// LogoKey returns the asset key of the uploaded logo, or empty.
func (s *Session) LogoKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoKey
}

// swapLogo assigns a new logo asset key and returns the superseded one.
func (s *Session) swapLogo(key string) (previous string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous = s.logoKey
	s.logoKey = key
	s.doc.Sender.LogoRef = assetLogoRef(key)
	return previous
}

func snapshot(doc *invoice.Document) invoice.Document {
	out := *doc
	out.Items = append([]invoice.LineItem(nil), doc.Items...)
	return out
}

// assetLogoRef builds the document logo reference for an uploaded asset.
func assetLogoRef(key string) string {
	if key == "" {
		return ""
	}
	return "asset:" + key
}

// SessionRegistry holds editing sessions in a TTL cache. When a session
// expires or is ended its uploaded logo asset is released.
type SessionRegistry struct {
	cache  *gocache.Cache
	assets assets.Store
	logger invoice.Logger
}

// NewSessionRegistry creates a registry with the given idle TTL.
func NewSessionRegistry(ttl time.Duration, store assets.Store, logger invoice.Logger) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = invoice.NopLogger{}
	}
	registry := &SessionRegistry{
		cache:  gocache.New(ttl, sessionCleanupInterval),
		assets: store,
		logger: logger,
	}
	registry.cache.OnEvicted(func(id string, value any) {
		session, ok := value.(*Session)
		if !ok {
			return
		}
		registry.releaseLogo(session)
	})
	return registry
}

// Create starts a session for a document seeded from the given profile.
func (r *SessionRegistry) Create(doc *invoice.Document, profileKey string) *Session {
	session := &Session{
		ID:         uuid.NewString(),
		ProfileKey: profileKey,
		doc:        doc,
	}
	r.cache.SetDefault(session.ID, session)
	r.logger.Debugf("session created: id=%s profile=%s", session.ID, profileKey)
	return session
}

// Get resolves a live session and renews its idle TTL.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	value, ok := r.cache.Get(id)
	if !ok {
		return nil, invoice.NewError(invoice.KindNotFound, fmt.Sprintf("session %q not found", id), nil)
	}
	session, ok := value.(*Session)
	if !ok {
		return nil, invoice.NewError(invoice.KindInternal, "session entry has unexpected type", nil)
	}
	r.cache.SetDefault(id, session)
	return session, nil
}

// End terminates a session, releasing its uploaded logo.
func (r *SessionRegistry) End(id string) {
	// Delete triggers the eviction hook, which releases the logo.
	r.cache.Delete(id)
}

// SetLogo stores the uploaded logo key on the session and releases the
// superseded asset synchronously.
func (r *SessionRegistry) SetLogo(session *Session, key string) {
	previous := session.swapLogo(key)
	if previous != "" && previous != key {
		if err := r.assets.Delete(context.Background(), previous); err != nil {
			r.logger.Errorf("logo release failed: key=%s err=%v", previous, err)
		}
	}
}

func (r *SessionRegistry) releaseLogo(session *Session) {
	key := session.LogoKey()
	if key == "" {
		return
	}
	if err := r.assets.Delete(context.Background(), key); err != nil {
		r.logger.Errorf("logo release failed: key=%s err=%v", key, err)
		return
	}
	r.logger.Debugf("session logo released: session=%s key=%s", session.ID, key)
}
