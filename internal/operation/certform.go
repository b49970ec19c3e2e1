// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxCountryLength is the longest accepted country code, in characters.
const MaxCountryLength = 2

// ErrCountryTooLong is returned when an edit would push the country field
// past MaxCountryLength. The field keeps its previous value.
var ErrCountryTooLong = errors.New("country code must be at most 2 characters")

// Field identifies one certificate subject field.
type Field int

const (
	FieldCommonName Field = iota
	FieldCountry
	FieldState
	FieldLocality
	FieldOrganization
	FieldOrganizationalUnit
	FieldEmail
)

// Fields lists all subject fields in form order.
var Fields = []Field{
	FieldCommonName,
	FieldCountry,
	FieldState,
	FieldLocality,
	FieldOrganization,
	FieldOrganizationalUnit,
	FieldEmail,
}

var fieldNames = [...]string{
	"common_name",
	"country",
	"state",
	"locality",
	"organization",
	"organizational_unit",
	"email",
}

var titleCaser = cases.Title(language.English)

// Name returns the wire name of the field ("organizational_unit").
func (f Field) Name() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Label returns a human label ("Organizational Unit").
func (f Field) Label() string {
	return titleCaser.String(strings.ReplaceAll(f.Name(), "_", " "))
}

// ParseField looks a field up by its wire name.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

func (r *CertificateRequest) get(f Field) string {
	switch f {
	case FieldCommonName:
		return r.CommonName
	case FieldCountry:
		return r.Country
	case FieldState:
		return r.State
	case FieldLocality:
		return r.Locality
	case FieldOrganization:
		return r.Organization
	case FieldOrganizationalUnit:
		return r.OrganizationalUnit
	case FieldEmail:
		return r.Email
	}
	return ""
}

func (r *CertificateRequest) set(f Field, v string) {
	switch f {
	case FieldCommonName:
		r.CommonName = v
	case FieldCountry:
		r.Country = v
	case FieldState:
		r.State = v
	case FieldLocality:
		r.Locality = v
	case FieldOrganization:
		r.Organization = v
	case FieldOrganizationalUnit:
		r.OrganizationalUnit = v
	case FieldEmail:
		r.Email = v
	}
}

// MissingFields returns the fields of r that are empty after trimming,
// in form order.
func MissingFields(r CertificateRequest) []Field {
	var missing []Field
	for _, f := range Fields {
		if blank(r.get(f)) {
			missing = append(missing, f)
		}
	}
	return missing
}

// =============================================================================
// CERTIFICATE FORM
// =============================================================================

// CertificateForm holds the certificate subject fields for one page mount.
// It is mutated in place by edits and is not cleared after issuance.
type CertificateForm struct {
	req CertificateRequest
}

// NewCertificateForm returns an empty form.
func NewCertificateForm() *CertificateForm {
	return &CertificateForm{}
}

// Update sets field to value. A country value longer than MaxCountryLength
// characters is rejected with ErrCountryTooLong and the previous value is
// kept. Values are stored verbatim.
func (f *CertificateForm) Update(field Field, value string) error {
	if field == FieldCountry && utf8.RuneCountInString(value) > MaxCountryLength {
		return ErrCountryTooLong
	}
	f.req.set(field, value)
	return nil
}

// Value returns the current value of field.
func (f *CertificateForm) Value(field Field) string {
	return f.req.get(field)
}

// Missing returns the empty fields in form order.
func (f *CertificateForm) Missing() []Field {
	return MissingFields(f.req)
}

// Complete reports whether every field is non-empty after trimming.
func (f *CertificateForm) Complete() bool {
	return len(f.Missing()) == 0
}

// Payload returns the seven-field request. It is only meaningful once
// Complete reports true; callers validate before submitting.
func (f *CertificateForm) Payload() CertificateRequest {
	return f.req
}
