package model

type Customer struct {
	BaseModel
	CompanyName   string `gorm:"type:varchar(255);unique;not null" json:"companyName"`
	Email         string `gorm:"type:citext;unique;not null" json:"email"`
	Password      string `gorm:"type:text;not null" json:"-"`
	APIKey        string `gorm:"type:text;unique;not null" json:"apiKey"`
	APISecret     string `gorm:"type:text;not null" json:"-"`
	IsActive      bool   `gorm:"not null;default:true" json:"isActive"`
	ContactPerson string `gorm:"type:varchar(255);default:null" json:"contactPerson,omitempty"`
	Phone         string `gorm:"type:varchar(50);default:null" json:"phone,omitempty"`

	Templates    []Template    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Certificates []Certificate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (c Customer) TableName() string {
	return "customers"
}
