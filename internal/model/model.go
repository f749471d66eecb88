package model

import "time"

type Language string

const (
	LanguageEN Language = "en"
	LanguageAR Language = "ar"
)

// Languages lists the supported languages, canonical first.
var Languages = []Language{LanguageEN, LanguageAR}

func (l Language) Valid() bool {
	return l == LanguageEN || l == LanguageAR
}

// Text is a string carried in every supported language.
type Text struct {
	EN string `json:"en" yaml:"en"`
	AR string `json:"ar" yaml:"ar"`
}

// Get returns the text for lang, falling back to English when the
// translation is missing.
func (t Text) Get(lang Language) string {
	if lang == LanguageAR && t.AR != "" {
		return t.AR
	}
	return t.EN
}

func (t Text) IsZero() bool {
	return t.EN == "" && t.AR == ""
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Landmark struct {
	ID          string       `json:"id"`
	Name        Text         `json:"name"`
	Built       string       `json:"built,omitempty"`
	Image       string       `json:"image"`
	Region      Text         `json:"region"`
	Category    Text         `json:"category"`
	Description Text         `json:"description"`
	History     Text         `json:"history"`
	Location    Text         `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Clone returns a copy that shares no pointers with l.
func (l Landmark) Clone() Landmark {
	out := l
	if l.Coordinates != nil {
		c := *l.Coordinates
		out.Coordinates = &c
	}
	return out
}

type ScanHistoryItem struct {
	LandmarkID string    `json:"landmarkId"`
	Date       time.Time `json:"date"`
	ImageURL   string    `json:"imageUrl,omitempty"`
}

type Badge struct {
	ID   string `json:"id"`
	Name Text   `json:"name"`
}
