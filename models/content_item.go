package models

import (
	"fmt"
	"time"
)

// Content type discriminator for a slot.
const (
	ContentTypeFile = "file"
	ContentTypeText = "text"
)

// SlotKey identifies one content location. It is a natural key: the
// store holds at most one content item per key.
type SlotKey struct {
	Subject string `json:"subject"`
	Feature string `json:"feature"`
	Chapter int    `json:"chapter"`
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Subject, k.Feature, k.Chapter)
}

// ContentItem is the payload currently occupying a slot. Exactly one of
// FilePath/Text is set, according to Type. FilePath holds the generated
// blob name in storage, never the bytes themselves.
type ContentItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Subject   string    `json:"subject" gorm:"size:128;not null;uniqueIndex:idx_content_slot"`
	Feature   string    `json:"feature" gorm:"size:128;not null;uniqueIndex:idx_content_slot"`
	Chapter   int       `json:"chapter" gorm:"not null;uniqueIndex:idx_content_slot"`
	Type      string    `json:"type" gorm:"size:8;not null"`
	FilePath  *string   `json:"filePath,omitempty" gorm:"size:1024"`
	Text      *string   `json:"content,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

// Key returns the slot key of the item.
func (c *ContentItem) Key() SlotKey {
	return SlotKey{Subject: c.Subject, Feature: c.Feature, Chapter: c.Chapter}
}
