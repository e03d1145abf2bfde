// Package session implements the cookie-backed server-side session layer.
// The browser holds only an opaque token; user id and one-time flash
// messages live in a session row that an expiry sweeper purges.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vidjot/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CookieName is the session cookie key.
const CookieName = "vidjot_session"

const ctxKey = "session"

// ErrNotFound is returned for missing or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists session rows. Expired rows are treated as missing by Get
// and removed by DeleteExpired.
type Store interface {
	Get(token string) (*models.Session, error)
	Create(s *models.Session) error
	Save(s *models.Session) error
	Delete(token string) error
	DeleteExpired() (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Get(token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *gormStore) Create(sess *models.Session) error {
	return s.db.Create(sess).Error
}

func (s *gormStore) Save(sess *models.Session) error {
	return s.db.Save(sess).Error
}

func (s *gormStore) Delete(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

func (s *gormStore) DeleteExpired() (int64, error) {
	res := s.db.Where("expires_at <= ?", time.Now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

// payload is the JSON structure stored in the session's Data column.
type payload struct {
	Flash map[string][]string `json:"flash,omitempty"`
}

// State is the per-request view of one session.
type State struct {
	row   *models.Session
	data  payload
	dirty bool
}

// UserID reports the authenticated user, if any.
func (st *State) UserID() (uint, bool) {
	if st.row == nil || st.row.UserID == nil {
		return 0, false
	}
	return *st.row.UserID, true
}

// SetUserID binds the session to a user. Persisted after the request.
func (st *State) SetUserID(id uint) {
	if st.row == nil {
		return
	}
	st.row.UserID = &id
	st.dirty = true
}

// Flash queues a one-time message under the given kind.
func (st *State) Flash(kind, msg string) {
	if st.data.Flash == nil {
		st.data.Flash = make(map[string][]string)
	}
	st.data.Flash[kind] = append(st.data.Flash[kind], msg)
	st.dirty = true
}

// PopFlashes returns and consumes all messages of the given kind.
func (st *State) PopFlashes(kind string) []string {
	msgs := st.data.Flash[kind]
	if len(msgs) == 0 {
		return nil
	}
	delete(st.data.Flash, kind)
	st.dirty = true
	return msgs
}

// Manager owns session lifecycle: cookie handling, persistence, sweeping.
type Manager struct {
	store Store
	ttl   time.Duration
	stop  chan struct{}
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, stop: make(chan struct{})}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Middleware loads the session named by the cookie, creating one when the
// cookie is absent or stale, and saves any changes after the handler runs.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := &State{}
		if token, err := c.Cookie(CookieName); err == nil && token != "" {
			if row, err := m.store.Get(token); err == nil {
				st.row = row
				if len(row.Data) > 0 {
					if err := json.Unmarshal(row.Data, &st.data); err != nil {
						st.data = payload{}
					}
				}
			}
		}
		if st.row == nil {
			if err := m.issue(c, st); err != nil {
				log.Error().Err(err).Msg("session create")
				// Serve the request without a session rather than failing it.
			}
		}
		c.Set(ctxKey, st)
		c.Next()

		if st.row != nil && st.dirty {
			b, err := json.Marshal(st.data)
			if err == nil {
				st.row.Data = b
				st.row.ExpiresAt = time.Now().Add(m.ttl)
				err = m.store.Save(st.row)
			}
			if err != nil {
				log.Error().Err(err).Msg("session save")
			}
		}
	}
}

// issue creates a fresh row and points the cookie at it.
func (m *Manager) issue(c *gin.Context, st *State) error {
	token, err := newToken()
	if err != nil {
		return err
	}
	row := &models.Session{Token: token, ExpiresAt: time.Now().Add(m.ttl)}
	if err := m.store.Create(row); err != nil {
		return err
	}
	st.row = row
	c.SetCookie(CookieName, token, int(m.ttl/time.Second), "/", "", false, true)
	return nil
}

// Renew rotates the session token in place, keeping user id and payload.
// Called on login so a pre-auth cookie never names an authenticated session.
func (m *Manager) Renew(c *gin.Context, st *State) error {
	if st.row == nil {
		return m.issue(c, st)
	}
	old := st.row.Token
	token, err := newToken()
	if err != nil {
		return err
	}
	row := &models.Session{Token: token, UserID: st.row.UserID, Data: st.row.Data, ExpiresAt: time.Now().Add(m.ttl)}
	if err := m.store.Create(row); err != nil {
		return err
	}
	if err := m.store.Delete(old); err != nil {
		log.Warn().Err(err).Msg("session renew: delete old row")
	}
	st.row = row
	st.dirty = true
	c.SetCookie(CookieName, token, int(m.ttl/time.Second), "/", "", false, true)
	return nil
}

// Destroy deletes the session row and clears the cookie.
func (m *Manager) Destroy(c *gin.Context, st *State) {
	if st.row != nil {
		if err := m.store.Delete(st.row.Token); err != nil {
			log.Warn().Err(err).Msg("session destroy")
		}
		st.row = nil
		st.dirty = false
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// StartSweeper purges expired rows on the given interval until StopSweeper.
func (m *Manager) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				n, err := m.store.DeleteExpired()
				if err != nil {
					log.Error().Err(err).Msg("session sweep")
					continue
				}
				if n > 0 {
					log.Debug().Int64("purged", n).Msg("session sweep")
				}
			}
		}
	}()
}

// StopSweeper stops the sweep goroutine. Safe to call more than once.
func (m *Manager) StopSweeper() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
}

// FromContext returns the request's session state. The middleware always
// installs one, so the fallback only matters for handlers mounted outside it.
func FromContext(c *gin.Context) *State {
	if v, ok := c.Get(ctxKey); ok {
		if st, ok2 := v.(*State); ok2 {
			return st
		}
	}
	return &State{}
}

// RequireUser aborts with a redirect to the login page when the session is
// not authenticated.
func RequireUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := FromContext(c)
		if _, ok := st.UserID(); !ok {
			st.Flash("error", "Please log in first")
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
