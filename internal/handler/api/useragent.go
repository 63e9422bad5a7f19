// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "github.com/mileusna/useragent"

const unknownAgent = "Unknown"

// visitorAgent is the browser, OS and device class recorded with an enquiry.
type visitorAgent struct {
	Browser string
	OS      string
	Device  string // desktop, mobile, tablet or bot
}

func parseVisitorAgent(s string) visitorAgent {
	if s == "" {
		return visitorAgent{Browser: unknownAgent, OS: unknownAgent, Device: unknownAgent}
	}

	ua := useragent.Parse(s)
	va := visitorAgent{Browser: ua.Name, OS: ua.OS}
	if va.Browser == "" {
		va.Browser = unknownAgent
	}
	if va.OS == "" {
		va.OS = unknownAgent
	}

	switch {
	case ua.Bot:
		va.Device = "bot"
	case ua.Tablet:
		va.Device = "tablet"
	case ua.Mobile:
		va.Device = "mobile"
	default:
		va.Device = "desktop"
	}
	return va
}
