// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Publication statuses for blogs and case studies.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// PublishStatuses lists the valid publication statuses.
var PublishStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

// Enquiry workflow statuses, in pipeline order. Closed and lost are terminal.
const (
	EnquiryNew         = "new"
	EnquiryContacted   = "contacted"
	EnquiryQualified   = "qualified"
	EnquiryProposal    = "proposal"
	EnquiryNegotiation = "negotiation"
	EnquiryClosed      = "closed"
	EnquiryLost        = "lost"
)

// EnquiryStatuses lists the enquiry statuses in pipeline order.
var EnquiryStatuses = []string{
	EnquiryNew, EnquiryContacted, EnquiryQualified, EnquiryProposal,
	EnquiryNegotiation, EnquiryClosed, EnquiryLost,
}

// Enquiry priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// EnquiryPriorities lists the valid enquiry priorities.
var EnquiryPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// IsPublishStatus reports whether s is a valid publication status.
func IsPublishStatus(s string) bool { return slices.Contains(PublishStatuses, s) }

// IsEnquiryStatus reports whether s is a valid enquiry status.
func IsEnquiryStatus(s string) bool { return slices.Contains(EnquiryStatuses, s) }

// IsEnquiryPriority reports whether s is a valid enquiry priority.
func IsEnquiryPriority(s string) bool { return slices.Contains(EnquiryPriorities, s) }
