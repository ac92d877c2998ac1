package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"roxtor-ops/access"
	"roxtor-ops/database"
	"roxtor-ops/ledger"
	"roxtor-ops/models"
	"roxtor-ops/radar"
)

var (
	ErrInvalidRate         = errors.New("exchange rate must be positive")
	ErrInvalidTone         = errors.New("unknown AI tone")
	ErrInvalidRole         = errors.New("unknown staff role")
	ErrStaffNameRequired   = errors.New("staff name is required")
	ErrBranchCodeRequired  = errors.New("branch code is required")
	ErrCompanyNameRequired = errors.New("company name is required")
)

// CompanyProfile is the identity block printed on every document.
type CompanyProfile struct {
	Name      string `json:"companyName"`
	Rif       string `json:"companyRif"`
	LogoURL   string `json:"companyLogoUrl"`
	Address   string `json:"companyAddress"`
	Phone     string `json:"companyPhone"`
	Instagram string `json:"companyInstagram"`
}

// updateSettings runs fn on a copy of the settings and persists it.
func (c *Controller) updateSettings(ctx context.Context, fn func(s *models.AppSettings) error) (models.AppSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.clone()
	if err := fn(&next.Settings); err != nil {
		return models.AppSettings{}, err
	}
	if err := c.commit(ctx, next, database.KeySettings); err != nil {
		return models.AppSettings{}, err
	}
	return next.Settings.Clone(), nil
}

func (c *Controller) UpdateCompany(ctx context.Context, p CompanyProfile) (models.AppSettings, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.AppSettings{}, ErrCompanyNameRequired
	}
	s, err := c.updateSettings(ctx, func(s *models.AppSettings) error {
		s.CompanyName = strings.TrimSpace(p.Name)
		s.CompanyRif = p.Rif
		s.CompanyLogoURL = p.LogoURL
		s.CompanyAddress = p.Address
		s.CompanyPhone = p.Phone
		s.CompanyInstagram = p.Instagram
		return nil
	})
	if err == nil {
		c.log.Info("company profile updated")
	}
	return s, err
}

// UpsertBranch adds a branch or edits an existing one. An existing branch
// keeps its order counter so numbers are never reissued.
func (c *Controller) UpsertBranch(ctx context.Context, b models.StoreInfo) (models.StoreInfo, error) {
	b.Code = strings.TrimSpace(b.Code)
	if b.Code == "" {
		return models.StoreInfo{}, ErrBranchCodeRequired
	}
	if b.LastOrderNumber < 0 {
		b.LastOrderNumber = 0
	}
	var saved models.StoreInfo
	_, err := c.updateSettings(ctx, func(s *models.AppSettings) error {
		if b.ID == "" {
			b.ID = c.newID()
			s.Stores = append(s.Stores, b)
			saved = b
			return nil
		}
		i := slices.IndexFunc(s.Stores, func(st models.StoreInfo) bool { return st.ID == b.ID })
		if i < 0 {
			return ErrBranchNotFound
		}
		b.LastOrderNumber = s.Stores[i].LastOrderNumber
		s.Stores[i] = b
		saved = b
		return nil
	})
	if err != nil {
		return models.StoreInfo{}, err
	}
	c.log.WithField("branch", saved.ID).Info("branch saved")
	return saved, nil
}

func (c *Controller) Staff() []models.Staff {
	return c.Settings().Designers
}

func (c *Controller) AddStaff(ctx context.Context, st models.Staff) (models.Staff, error) {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return models.Staff{}, ErrStaffNameRequired
	}
	if st.Role == "" {
		st.Role = models.RoleOther
	}
	if !st.Role.Valid() {
		return models.Staff{}, fmt.Errorf("%w: %q", ErrInvalidRole, st.Role)
	}
	st.ID = c.newID()
	_, err := c.updateSettings(ctx, func(s *models.AppSettings) error {
		s.Designers = append(s.Designers, st)
		return nil
	})
	if err != nil {
		return models.Staff{}, err
	}
	c.log.WithField("staff", st.ID).Info("staff added")
	return st, nil
}

// RemoveStaff drops a roster member. Assignment history keeps their name.
func (c *Controller) RemoveStaff(ctx context.Context, id string) error {
	_, err := c.updateSettings(ctx, func(s *models.AppSettings) error {
		i := slices.IndexFunc(s.Designers, func(st models.Staff) bool { return st.ID == id })
		if i < 0 {
			return ledger.ErrUnknownStaff
		}
		s.Designers = slices.Delete(s.Designers, i, i+1)
		return nil
	})
	if err == nil {
		c.log.WithField("staff", id).Info("staff removed")
	}
	return err
}

func (c *Controller) SetExchangeRate(ctx context.Context, rate float64) (models.AppSettings, error) {
	if rate <= 0 {
		return models.AppSettings{}, ErrInvalidRate
	}
	s, err := c.updateSettings(ctx, func(s *models.AppSettings) error {
		s.CurrentBcvRate = rate
		s.LastRateUpdate = c.now().Format(time.RFC3339)
		return nil
	})
	if err == nil {
		c.log.WithField("rate", rate).Info("exchange rate set")
	}
	return s, err
}

// RefreshExchangeRate asks the rate source for today's official rate.
// Implausible readings change nothing.
func (c *Controller) RefreshExchangeRate(ctx context.Context) (models.AppSettings, error) {
	rate, err := c.ai.Rates.FetchRate(ctx)
	if err == nil {
		err = radar.CheckRate(rate)
	}
	if err != nil {
		c.log.WithError(err).Warn("exchange rate refresh failed")
		return models.AppSettings{}, err
	}
	return c.SetExchangeRate(ctx, rate)
}

// ChangePINs replaces either PIN. Empty values leave that PIN unchanged.
func (c *Controller) ChangePINs(ctx context.Context, accessPIN, masterPIN string) error {
	accessPIN, masterPIN = strings.TrimSpace(accessPIN), strings.TrimSpace(masterPIN)
	if accessPIN == "" && masterPIN == "" {
		return access.ErrEmptyPIN
	}
	var accessHash, masterHash string
	var err error
	if accessPIN != "" {
		if accessHash, err = access.HashPIN(accessPIN); err != nil {
			return err
		}
	}
	if masterPIN != "" {
		if masterHash, err = access.HashPIN(masterPIN); err != nil {
			return err
		}
	}
	_, err = c.updateSettings(ctx, func(s *models.AppSettings) error {
		if accessHash != "" {
			s.AccessPinHash = accessHash
		}
		if masterHash != "" {
			s.MasterPinHash = masterHash
		}
		return nil
	})
	if err == nil {
		c.log.WithField("access", accessHash != "").WithField("master", masterHash != "").Info("PINs changed")
	}
	return err
}

func (c *Controller) SetTone(ctx context.Context, tone models.AITone) (models.AppSettings, error) {
	if !tone.Valid() {
		return models.AppSettings{}, fmt.Errorf("%w: %q", ErrInvalidTone, tone)
	}
	return c.updateSettings(ctx, func(s *models.AppSettings) error {
		s.AITone = tone
		return nil
	})
}
