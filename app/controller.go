// Package app owns the application state. Every mutation is a command on
// Controller: it works on a copy, persists the touched collections and only
// then publishes the copy, so a failed save never leaves partial state.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roxtor-ops/access"
	"roxtor-ops/database"
	"roxtor-ops/models"
	"roxtor-ops/radar"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrLeadNotFound    = errors.New("lead not found")
	ErrBranchNotFound  = errors.New("branch not found")
)

const (
	defaultAccessPIN = "1234"
	defaultMasterPIN = "2025"
)

type State struct {
	Products []models.Product
	Orders   []models.Order // newest first
	Settings models.AppSettings
	Leads    []models.Lead // newest first
}

func (s State) clone() State {
	return State{
		Products: slices.Clone(s.Products),
		Orders:   slices.Clone(s.Orders),
		Settings: s.Settings.Clone(),
		Leads:    slices.Clone(s.Leads),
	}
}

// Ports are the external AI services. Nil fields are disabled.
type Ports struct {
	Extractor radar.Extractor
	Speaker   radar.Speaker
	Rates     radar.RateSource
	Catalog   radar.CatalogExtractor
}

func (p Ports) withDefaults() Ports {
	if p.Extractor == nil {
		p.Extractor = radar.Disabled{}
	}
	if p.Speaker == nil {
		p.Speaker = radar.Disabled{}
	}
	if p.Rates == nil {
		p.Rates = radar.Disabled{}
	}
	if p.Catalog == nil {
		p.Catalog = radar.Disabled{}
	}
	return p
}

type Controller struct {
	mu    sync.RWMutex
	state State

	store database.Store
	log   logrus.FieldLogger
	ai    Ports
	now   func() time.Time
	newID func() string
}

type Option func(*Controller)

func WithPorts(p Ports) Option {
	return func(c *Controller) { c.ai = p.withDefaults() }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

func New(store database.Store, logger logrus.FieldLogger, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		log:   logger,
		ai:    Ports{}.withDefaults(),
		now:   time.Now,
		newID: uuid.NewString,
		state: State{Settings: models.DefaultSettings()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads every collection once. Missing or malformed values fall back
// to their defaults; only store failures are returned.
func (c *Controller) Load(ctx context.Context) error {
	var next State
	if err := c.loadKey(ctx, database.KeyCatalog, &next.Products, func() { next.Products = []models.Product{} }); err != nil {
		return err
	}
	if err := c.loadKey(ctx, database.KeyOrders, &next.Orders, func() { next.Orders = []models.Order{} }); err != nil {
		return err
	}
	if err := c.loadKey(ctx, database.KeyLeads, &next.Leads, func() { next.Leads = []models.Lead{} }); err != nil {
		return err
	}
	if err := c.loadKey(ctx, database.KeySettings, &next.Settings, func() { next.Settings = models.DefaultSettings() }); err != nil {
		return err
	}
	// Un "null" guardado cuenta como colección vacía
	if next.Products == nil {
		next.Products = []models.Product{}
	}
	if next.Orders == nil {
		next.Orders = []models.Order{}
	}
	if next.Leads == nil {
		next.Leads = []models.Lead{}
	}
	var repaired int
	if next.Orders, repaired = recomputeOrders(next.Orders); repaired > 0 {
		c.log.WithField("orders", repaired).Warn("stored orders had stale totals, recomputed")
	}

	settings, rehashed, err := secureSettings(next.Settings)
	if err != nil {
		return err
	}
	next.Settings = settings

	c.mu.Lock()
	defer c.mu.Unlock()
	if rehashed {
		if err := c.store.Save(ctx, database.KeySettings, next.Settings); err != nil {
			return fmt.Errorf("persist hashed PINs: %w", err)
		}
		c.log.Info("PINs stored as hashes")
	}
	c.state = next
	c.log.WithFields(logrus.Fields{
		"products": len(next.Products),
		"orders":   len(next.Orders),
		"leads":    len(next.Leads),
		"branches": len(next.Settings.Stores),
	}).Info("state loaded")
	return nil
}

func (c *Controller) loadKey(ctx context.Context, key string, dst any, fallback func()) error {
	found, err := c.store.Load(ctx, key, dst)
	switch {
	case errors.Is(err, database.ErrCorrupt):
		c.log.WithError(err).WithField("key", key).Warn("malformed stored data, using defaults")
		fallback()
		return nil
	case err != nil:
		return err
	case !found:
		fallback()
	}
	return nil
}

// secureSettings replaces plaintext PINs with hashes and fills the ones that
// were never set. rehashed is true when anything changed.
func secureSettings(s models.AppSettings) (models.AppSettings, bool, error) {
	changed := false
	hash := func(plain, current, fallback string) (string, error) {
		if plain == "" && current != "" {
			return current, nil
		}
		if plain == "" {
			plain = fallback
		}
		changed = true
		return access.HashPIN(plain)
	}
	var err error
	if s.AccessPinHash, err = hash(s.AccessPin, s.AccessPinHash, defaultAccessPIN); err != nil {
		return s, false, fmt.Errorf("hash access PIN: %w", err)
	}
	if s.MasterPinHash, err = hash(s.MasterPin, s.MasterPinHash, defaultMasterPIN); err != nil {
		return s, false, fmt.Errorf("hash master PIN: %w", err)
	}
	s.AccessPin, s.MasterPin = "", ""
	if !s.AITone.Valid() {
		s.AITone = models.ToneProfessional
		changed = true
	}
	return s, changed, nil
}

// commit persists keys from next in order and publishes next. If a save
// fails, keys already written are restored from the current state. Callers
// hold c.mu.
func (c *Controller) commit(ctx context.Context, next State, keys ...string) error {
	for i, key := range keys {
		if err := c.store.Save(ctx, key, next.value(key)); err != nil {
			for _, done := range keys[:i] {
				if rerr := c.store.Save(ctx, done, c.state.value(done)); rerr != nil {
					c.log.WithError(rerr).WithField("key", done).Error("rollback failed")
				}
			}
			return fmt.Errorf("persist %s: %w", key, err)
		}
	}
	c.state = next
	return nil
}

func (s State) value(key string) any {
	switch key {
	case database.KeyCatalog:
		return s.Products
	case database.KeyOrders:
		return s.Orders
	case database.KeySettings:
		return s.Settings
	case database.KeyLeads:
		return s.Leads
	}
	panic("unknown key " + key)
}

// Snapshot returns a copy of the whole state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Settings returns a copy of the current settings.
func (c *Controller) Settings() models.AppSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Settings.Clone()
}

func (c *Controller) Unlock(s access.Session, pin string) (access.Session, error) {
	return access.NewGate(c.Settings()).Unlock(s, pin)
}

func (c *Controller) Elevate(s access.Session, pin string) (access.Session, error) {
	return access.NewGate(c.Settings()).Elevate(s, pin)
}

func (c *Controller) LoginStaff(staffID string) (access.Session, error) {
	settings := c.Settings()
	return access.NewGate(settings).LoginStaff(settings, staffID)
}
