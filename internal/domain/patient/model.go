package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. It holds the demographic record of a
// mother admitted to the obstetrics service.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	RUT              string     `db:"rut" json:"rut"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastNamePaternal string     `db:"last_name_paternal" json:"last_name_paternal"`
	LastNameMaternal *string    `db:"last_name_maternal" json:"last_name_maternal,omitempty"`
	BirthDate        time.Time  `db:"birth_date" json:"birth_date"`
	MaritalStatus    *string    `db:"marital_status" json:"marital_status,omitempty"`
	Education        *string    `db:"education" json:"education,omitempty"`
	IndigenousOrigin *bool      `db:"indigenous_origin" json:"indigenous_origin,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	Commune          *string    `db:"commune" json:"commune,omitempty"`
	Region           *string    `db:"region" json:"region,omitempty"`
	Insurance        *string    `db:"insurance" json:"insurance,omitempty"`
	OriginClinic     *string    `db:"origin_clinic" json:"origin_clinic,omitempty"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Valid marital status values.
var validMaritalStatuses = map[string]bool{
	"single": true, "married": true, "cohabiting": true,
	"widowed": true, "divorced": true,
}

// Valid insurance values.
var validInsurances = map[string]bool{
	"fonasa_a": true, "fonasa_b": true, "fonasa_c": true, "fonasa_d": true,
	"isapre": true, "private": true,
}

// FullName returns the patient's full name.
func (p *Patient) FullName() string {
	parts := []string{p.FirstName, p.LastNamePaternal}
	if p.LastNameMaternal != nil && *p.LastNameMaternal != "" {
		parts = append(parts, *p.LastNameMaternal)
	}
	return strings.Join(parts, " ")
}

// AgeAt returns the patient's age in whole years at the given date.
func (p *Patient) AgeAt(at time.Time) int {
	age := at.Year() - p.BirthDate.Year()
	if at.Month() < p.BirthDate.Month() ||
		(at.Month() == p.BirthDate.Month() && at.Day() < p.BirthDate.Day()) {
		age--
	}
	return age
}

// Age returns the patient's current age in whole years.
func (p *Patient) Age() int {
	return p.AgeAt(time.Now())
}
