package model

import (
	"time"

	"github.com/SeakMengs/SecCert/internal/constant"
)

type Certificate struct {
	BaseModel
	CertificateNumber string                     `gorm:"type:varchar(64);uniqueIndex;not null" json:"certificateNumber"`
	TemplateID        string                     `gorm:"type:text;not null;index" json:"templateId"`
	CustomerID        string                     `gorm:"type:text;not null;index" json:"customerId"`
	Data              JSONMap                    `gorm:"type:jsonb;not null" json:"data"`
	Signature         string                     `gorm:"type:text;uniqueIndex;not null" json:"signature"`
	VerificationToken string                     `gorm:"type:text;uniqueIndex;not null" json:"verificationToken"`
	FilePath          string                     `gorm:"type:text;default:null" json:"-"`
	Status            constant.CertificateStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	IssuedAt          *time.Time                 `gorm:"type:timestamptz;default:null" json:"issuedAt"`
	RevokedAt         *time.Time                 `gorm:"type:timestamptz;default:null" json:"revokedAt,omitempty"`
	Metadata          JSONMap                    `gorm:"type:jsonb;default:null" json:"metadata,omitempty"`

	Template *Template `json:"template,omitempty"`
}

func (c Certificate) TableName() string {
	return "certificates"
}
