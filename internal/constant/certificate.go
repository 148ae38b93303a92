package constant

type CertificateStatus string

const (
	CertificateStatusDraft     CertificateStatus = "draft"
	CertificateStatusGenerated CertificateStatus = "generated"
	CertificateStatusIssued    CertificateStatus = "issued"
	CertificateStatusRevoked   CertificateStatus = "revoked"
)

func (s CertificateStatus) IsValid() bool {
	switch s {
	case CertificateStatusDraft, CertificateStatusGenerated, CertificateStatusIssued, CertificateStatusRevoked:
		return true
	}
	return false
}

const (
	TemplateOrientationLandscape = "landscape"
	TemplateOrientationPortrait  = "portrait"
)
