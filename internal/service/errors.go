package service

import (
	"errors"
	"strings"
)

var (
	ErrTemplateNotFound        = errors.New("template not found")
	ErrTemplateInUse           = errors.New("template has issued certificates")
	ErrCertificateNotFound     = errors.New("certificate not found")
	ErrCertificateFileNotFound = errors.New("certificate file not found")
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrEmptyBatch              = errors.New("certificates array is required")
	ErrInvalidStatus           = errors.New("invalid certificate status")
	ErrInvalidSignature        = errors.New("certificate signature is invalid")

	ErrEmailTaken             = errors.New("email already registered")
	ErrCustomerExists         = errors.New("customer already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrInvalidAuthToken       = errors.New("invalid authentication token")
	ErrAPICredentialsRequired = errors.New("api credentials required")
	ErrInvalidAPICredentials  = errors.New("invalid api credentials")
)

// MissingFieldsError lists template placeholders that were absent or empty in the submitted data.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
