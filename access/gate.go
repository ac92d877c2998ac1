// Package access implements the two-tier PIN gate.
package access

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"roxtor-ops/models"
)

var (
	ErrIncorrectPIN = errors.New("incorrect PIN")
	ErrEmptyPIN     = errors.New("PIN cannot be empty")
	ErrUnknownStaff = errors.New("staff member not found")
)

// HashCost is the bcrypt cost used for PINs. Tests lower it.
var HashCost = bcrypt.DefaultCost

type Tier int

const (
	Locked Tier = iota
	General
	Management
)

func (t Tier) String() string {
	switch t {
	case General:
		return "general"
	case Management:
		return "management"
	}
	return "locked"
}

func ParseTier(s string) (Tier, error) {
	switch s {
	case "locked":
		return Locked, nil
	case "general":
		return General, nil
	case "management":
		return Management, nil
	}
	return Locked, fmt.Errorf("unknown tier %q", s)
}

func HashPIN(pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", ErrEmptyPIN
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pin), HashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPIN(hash, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(pin))) == nil
}

// Tab is a navigable area of the UI.
type Tab string

const (
	TabOrders   Tab = "orders"
	TabStaff    Tab = "staff"
	TabCatalog  Tab = "catalog"
	TabRadar    Tab = "radar"
	TabStock    Tab = "stock"
	TabReports  Tab = "reports"
	TabSettings Tab = "settings"
)

var tabTier = map[Tab]Tier{
	TabOrders:   General,
	TabStaff:    General,
	TabCatalog:  General,
	TabRadar:    General,
	TabStock:    Management,
	TabReports:  Management,
	TabSettings: Management,
}

// staffTabs are the only tabs a per-staff session sees.
var staffTabs = map[Tab]bool{TabOrders: true, TabStaff: true}

// Session is the unlock state of one client. The zero value is Locked.
type Session struct {
	Tier    Tier   `json:"tier"`
	StaffID string `json:"staffId,omitempty"`
}

// Scoped reports whether the session only sees one staff member's orders.
func (s Session) Scoped() bool { return s.StaffID != "" }

func (s Session) Allows(tab Tab) bool {
	need, ok := tabTier[tab]
	if !ok || s.Tier < need {
		return false
	}
	if s.Scoped() && s.Tier < Management {
		return staffTabs[tab]
	}
	return true
}

// Gate validates PINs against the hashes in the settings it was built from.
type Gate struct {
	accessHash string
	masterHash string
}

func NewGate(settings models.AppSettings) Gate {
	return Gate{accessHash: settings.AccessPinHash, masterHash: settings.MasterPinHash}
}

// Unlock moves a locked session to General. A wrong PIN leaves s unchanged.
func (g Gate) Unlock(s Session, pin string) (Session, error) {
	if s.Tier >= General && !s.Scoped() {
		return s, nil
	}
	if !CheckPIN(g.accessHash, pin) {
		return s, ErrIncorrectPIN
	}
	return Session{Tier: General}, nil
}

// Elevate moves a locked or general session to Management.
func (g Gate) Elevate(s Session, pin string) (Session, error) {
	if s.Tier == Management {
		return s, nil
	}
	if !CheckPIN(g.masterHash, pin) {
		return s, ErrIncorrectPIN
	}
	return Session{Tier: Management}, nil
}

// LoginStaff opens a General session limited to one staff member's work.
func (g Gate) LoginStaff(settings models.AppSettings, staffID string) (Session, error) {
	staff, ok := settings.StaffMember(staffID)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrUnknownStaff, staffID)
	}
	return Session{Tier: General, StaffID: staff.ID}, nil
}

func Lock() Session { return Session{} }
