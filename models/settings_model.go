package models

import "fmt"

type Role string

const (
	RoleAgent      Role = "agente"
	RoleDesigner   Role = "diseñador"
	RoleSeamstress Role = "costura"
	RoleWorkshop   Role = "taller"
	RoleManagement Role = "gerencia"
	RoleOther      Role = "otro"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAgent, RoleDesigner, RoleSeamstress, RoleWorkshop, RoleManagement, RoleOther:
		return true
	}
	return false
}

type AITone string

const (
	ToneProfessional AITone = "profesional"
	ToneCasual       AITone = "casual"
	TonePersuasive   AITone = "persuasivo"
	ToneFriendly     AITone = "amigable"
)

func (t AITone) Valid() bool {
	switch t {
	case ToneProfessional, ToneCasual, TonePersuasive, ToneFriendly:
		return true
	}
	return false
}

// StoreInfo is a branch. Each branch owns its order-number sequence.
type StoreInfo struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email" json:"email"`
	Hours   string `bson:"hours" json:"hours"`
	// Code prefixes the branch's order numbers. Serialized under its legacy key.
	Code            string `bson:"whatsappId" json:"whatsappId"`
	LastOrderNumber int    `bson:"lastOrderNumber" json:"lastOrderNumber"`
	HeaderTitle     string `bson:"headerTitle" json:"headerTitle"`
}

// NextOrderNumber returns the number the branch would issue next.
func (s StoreInfo) NextOrderNumber() string {
	return fmt.Sprintf("%s-%d", s.Code, s.LastOrderNumber+1)
}

// Staff is a roster member (agents, designers, seamstresses, ...).
type Staff struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	Specialty       string `bson:"specialty" json:"specialty"`
	Phone           string `bson:"phone" json:"phone"`
	AssignedStoreID string `bson:"assignedStoreId" json:"assignedStoreId"`
	Role            Role   `bson:"role" json:"role"`
}

type AppSettings struct {
	CompanyName      string      `bson:"companyName" json:"companyName"`
	CompanyRif       string      `bson:"companyRif" json:"companyRif"`
	CompanyLogoURL   string      `bson:"companyLogoUrl,omitempty" json:"companyLogoUrl,omitempty"`
	CompanyAddress   string      `bson:"companyAddress" json:"companyAddress"`
	CompanyPhone     string      `bson:"companyPhone" json:"companyPhone"`
	CompanyInstagram string      `bson:"companyInstagram" json:"companyInstagram"`
	Stores           []StoreInfo `bson:"stores" json:"stores"`
	Designers        []Staff     `bson:"designers" json:"designers"`
	CurrentBcvRate   float64     `bson:"currentBcvRate" json:"currentBcvRate"`
	LastRateUpdate   string      `bson:"lastRateUpdate" json:"lastRateUpdate"`
	AccessPinHash    string      `bson:"accessPinHash" json:"accessPinHash"`
	MasterPinHash    string      `bson:"masterPinHash" json:"masterPinHash"`
	AITone           AITone      `bson:"aiTone" json:"aiTone"`

	// Plaintext PINs are accepted from older backups and replaced by hashes on load.
	AccessPin string `bson:"-" json:"accessPin,omitempty"`
	MasterPin string `bson:"-" json:"masterPin,omitempty"`
}

// Store finds a branch by id.
func (s AppSettings) Store(id string) (StoreInfo, bool) {
	for _, st := range s.Stores {
		if st.ID == id {
			return st, true
		}
	}
	return StoreInfo{}, false
}

// StaffMember finds a roster member by id.
func (s AppSettings) StaffMember(id string) (Staff, bool) {
	for _, d := range s.Designers {
		if d.ID == id {
			return d, true
		}
	}
	return Staff{}, false
}

// Clone returns a copy that shares no slices with s.
func (s AppSettings) Clone() AppSettings {
	c := s
	c.Stores = append([]StoreInfo(nil), s.Stores...)
	c.Designers = append([]Staff(nil), s.Designers...)
	return c
}

// DefaultSettings is used when nothing has been persisted yet. PINs are
// plaintext here and get hashed by the loader.
func DefaultSettings() AppSettings {
	return AppSettings{
		CompanyName:      "INVERSIONES ROXTOR C.A.",
		CompanyRif:       "J-402959737",
		CompanyAddress:   "Puerto Ordaz, Estado Bolívar, Venezuela",
		CompanyPhone:     "+58 424 9635252",
		CompanyInstagram: "@roxtor.pzo",
		CurrentBcvRate:   36.45,
		AccessPin:        "1234",
		MasterPin:        "2025",
		AITone:           ToneProfessional,
		Stores: []StoreInfo{
			{ID: "1", Name: "Roxtor Principal", Address: "Calle Principal PZO", Phone: "+58 424 0000001", Email: "pzo@roxtor.com", Hours: "Lun-Vie: 8am - 5pm", Code: "P", LastOrderNumber: 1000, HeaderTitle: "ORDEN DE SERVICIO PRINCIPAL"},
			{ID: "2", Name: "Roxtor Centro", Address: "Av. Las Américas", Phone: "+58 424 0000002", Email: "centro@roxtor.com", Hours: "Lun-Sab: 9am - 6pm", Code: "C", LastOrderNumber: 2000, HeaderTitle: "ORDEN DE SERVICIO CENTRO"},
		},
		Designers: []Staff{
			{ID: "t1", Name: "Alejo", Specialty: "Diseño Gráfico", Phone: "584240000001", AssignedStoreID: "1", Role: RoleDesigner},
			{ID: "t2", Name: "Emi", Specialty: "Costura Senior", Phone: "584240000002", AssignedStoreID: "1", Role: RoleSeamstress},
		},
	}
}
