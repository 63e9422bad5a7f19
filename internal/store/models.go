// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"
)

type Admin struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Name                string     `json:"name"`
	Role                string     `json:"role"`
	IsActive            bool       `json:"isActive"`
	LastLoginAt         *time.Time `json:"lastLogin,omitempty"`
	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type RefreshToken struct {
	ID        int64     `json:"id"`
	TokenHash string    `json:"-"`
	AdminID   int64     `json:"adminId"`
	UserAgent string    `json:"userAgent"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type ContentPage struct {
	Page      string    `json:"page"`
	Sections  RawJSON   `json:"sections"`
	Seo       RawJSON   `json:"seo"`
	UpdatedBy *int64    `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Blog struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	ContentHTML    string     `json:"contentHtml"`
	CoverImage     string     `json:"coverImage"`
	Author         string     `json:"author"`
	Category       string     `json:"category"`
	Tags           StringList `json:"tags"`
	Status         string     `json:"status"`
	Featured       bool       `json:"featured"`
	ReadingTime    int64      `json:"readingTime"`
	SeoTitle       string     `json:"seoTitle"`
	SeoDescription string     `json:"seoDescription"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	Views          int64      `json:"views"`
	CreatedBy      *int64     `json:"createdBy,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CaseStudy struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Client       string     `json:"client"`
	Industry     string     `json:"industry"`
	Summary      string     `json:"summary"`
	Challenge    string     `json:"challenge"`
	Solution     string     `json:"solution"`
	Results      string     `json:"results"`
	Metrics      RawJSON    `json:"metrics"`
	Technologies StringList `json:"technologies"`
	CoverImage   string     `json:"coverImage"`
	Gallery      StringList `json:"gallery"`
	Testimonial  string     `json:"testimonial"`
	Status       string     `json:"status"`
	Featured     bool       `json:"featured"`
	SortOrder    int64      `json:"order"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Quote     string    `json:"quote"`
	Avatar    string    `json:"avatar"`
	Rating    int64     `json:"rating"`
	Featured  bool      `json:"featured"`
	IsActive  bool      `json:"isActive"`
	SortOrder int64     `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TeamMember struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Bio        string    `json:"bio"`
	Photo      string    `json:"photo"`
	Email      string    `json:"email"`
	Linkedin   string    `json:"linkedin"`
	Twitter    string    `json:"twitter"`
	IsActive   bool      `json:"isActive"`
	SortOrder  int64     `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Client struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Logo        string    `json:"logo"`
	Website     string    `json:"website"`
	Industry    string    `json:"industry"`
	Description string    `json:"description"`
	Featured    bool      `json:"featured"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int64     `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Enquiry struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Company    string    `json:"company"`
	Service    string    `json:"service"`
	Budget     string    `json:"budget"`
	Timeline   string    `json:"timeline"`
	Message    string    `json:"message"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	AssignedTo *int64    `json:"assignedTo,omitempty"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	Device     string    `json:"device"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type EnquiryNote struct {
	ID        int64     `json:"id"`
	EnquiryID int64     `json:"enquiryId"`
	Content   string    `json:"content"`
	AuthorID  *int64    `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Medium struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Folder       string    `json:"folder"`
	Path         string    `json:"-"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Width        int64     `json:"width,omitempty"`
	Height       int64     `json:"height,omitempty"`
	Alt          string    `json:"alt"`
	Caption      string    `json:"caption"`
	UploadedBy   *int64    `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PageSeo struct {
	ID            int64      `json:"id"`
	Page          string     `json:"page"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Keywords      StringList `json:"keywords"`
	OgTitle       string     `json:"ogTitle"`
	OgDescription string     `json:"ogDescription"`
	OgImage       string     `json:"ogImage"`
	Canonical     string     `json:"canonical"`
	NoIndex       bool       `json:"noIndex"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Setting struct {
	ID              int64     `json:"-"`
	SiteName        string    `json:"siteName"`
	Tagline         string    `json:"tagline"`
	ContactEmail    string    `json:"contactEmail"`
	ContactPhone    string    `json:"contactPhone"`
	Address         string    `json:"address"`
	Social          RawJSON   `json:"social"`
	AnalyticsID     string    `json:"analyticsId"`
	MaintenanceMode bool      `json:"maintenanceMode"`
	UpdatedBy       *int64    `json:"updatedBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  RawJSON   `json:"metadata"`
	AdminID   *int64    `json:"adminId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
