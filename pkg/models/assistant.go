package models

import "time"

// Language is the closed set of UI languages. Anything else maps to English.
type Language string

const (
	LanguageEn Language = "en"
	LanguageHi Language = "hi"
	LanguageGu Language = "gu"
)

func ParseLanguage(s string) Language {
	switch Language(s) {
	case LanguageHi:
		return LanguageHi
	case LanguageGu:
		return LanguageGu
	default:
		return LanguageEn
	}
}

// LocalizedText keeps the three translations of one field side by side.
// Embedded with a column prefix, so a Scheme's Name lands in name_en,
// name_hi, name_gu.
type LocalizedText struct {
	En string `json:"en"`
	Hi string `json:"hi"`
	Gu string `json:"gu"`
}

// In picks the translation for lang, falling back to English when the
// translation is empty.
func (t LocalizedText) In(lang Language) string {
	switch lang {
	case LanguageHi:
		if t.Hi != "" {
			return t.Hi
		}
	case LanguageGu:
		if t.Gu != "" {
			return t.Gu
		}
	}
	return t.En
}

type Conversation struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	ConversationUid string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	UserUid         string `json:"user_id" gorm:"type:uuid;index;not null"`
	Title           string `json:"title"`
	Language        string `json:"language" gorm:"size:5;default:'en'"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:ConversationUid;references:ConversationUid;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ConversationUid string    `json:"conversation_id" gorm:"type:uuid;index;not null"`
	Role            string    `json:"role" gorm:"size:20;not null"`
	Content         string    `json:"content" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}

type Scheme struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SchemeUid string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`

	Name        LocalizedText `json:"name" gorm:"embedded;embeddedPrefix:name_"`
	Description LocalizedText `json:"description" gorm:"embedded;embeddedPrefix:description_"`
	Eligibility LocalizedText `json:"eligibility" gorm:"embedded;embeddedPrefix:eligibility_"`
	Benefits    LocalizedText `json:"benefits" gorm:"embedded;embeddedPrefix:benefits_"`

	ApplicationURL string `json:"application_url"`
	Category       string `json:"category" gorm:"index"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`
	Priority       int    `json:"priority" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tip struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	TipUid string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`

	Title       LocalizedText `json:"title" gorm:"embedded;embeddedPrefix:title_"`
	Description LocalizedText `json:"description" gorm:"embedded;embeddedPrefix:description_"`
	Content     LocalizedText `json:"content" gorm:"embedded;embeddedPrefix:content_"`

	Category string `json:"category" gorm:"index"`
	Icon     string `json:"icon"`
	Season   string `json:"season" gorm:"size:20;default:'all'"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
	Priority int    `json:"priority" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
