package model

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/SeakMengs/SecCert/pkg/certgen"
	"github.com/lib/pq"
)

type TemplateField struct {
	Key   string `json:"key" binding:"required,strNotEmpty"`
	Label string `json:"label" binding:"required,strNotEmpty"`
	Type  string `json:"type"`
}

type TemplateLayout struct {
	Orientation string  `json:"orientation,omitempty" binding:"omitempty,oneof=landscape portrait"`
	FontSize    float64 `json:"fontSize,omitempty" binding:"omitempty,gte=6,lte=72"`
}

// TemplateContent is stored as a jsonb document.
type TemplateContent struct {
	Title  string          `json:"title"`
	Fields []TemplateField `json:"fields" binding:"dive"`
	Layout *TemplateLayout `json:"layout,omitempty"`
}

func (tc TemplateContent) Value() (driver.Value, error) {
	b, err := jsonAPI.Marshal(tc)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (tc *TemplateContent) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*tc = TemplateContent{}
		return nil
	case []byte:
		return jsonAPI.Unmarshal(v, tc)
	case string:
		return jsonAPI.Unmarshal([]byte(v), tc)
	default:
		return errors.New(fmt.Sprint("failed to scan template content: ", value))
	}
}

// FieldKeys returns the field keys in declaration order.
func (tc TemplateContent) FieldKeys() []string {
	keys := make([]string, 0, len(tc.Fields))
	for _, f := range tc.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

type Template struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text;default:null" json:"description,omitempty"`
	Content      TemplateContent `gorm:"type:jsonb;not null" json:"content"`
	Placeholders pq.StringArray  `gorm:"type:text[];not null" json:"placeholders"`
	Styling      JSONMap         `gorm:"type:jsonb;default:null" json:"styling,omitempty"`
	CustomerID   string          `gorm:"type:text;not null;index" json:"customerId"`
	IsActive     bool            `gorm:"not null;default:true" json:"isActive"`

	Certificates []Certificate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (t Template) TableName() string {
	return "templates"
}

func (t Template) ToCertgenTemplate() certgen.Template {
	fields := make([]certgen.Field, 0, len(t.Content.Fields))
	for _, f := range t.Content.Fields {
		fields = append(fields, certgen.Field{Key: f.Key, Label: f.Label, Type: f.Type})
	}

	ct := certgen.Template{
		Title:  t.Content.Title,
		Fields: fields,
	}
	if t.Content.Layout != nil {
		ct.Layout = certgen.Layout{
			Orientation: t.Content.Layout.Orientation,
			FontSize:    t.Content.Layout.FontSize,
		}
	}

	return ct
}
