// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
	MimeTypePDF  = "application/pdf"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
)

// Media folders. Uploads are routed to a folder by MIME type unless the
// caller names one explicitly.
const (
	FolderImages    = "images"
	FolderVideos    = "videos"
	FolderDocuments = "documents"
	FolderGeneral   = "general"
)

// MediaFolders lists the folders an upload may be placed in.
var MediaFolders = []string{FolderImages, FolderVideos, FolderDocuments, FolderGeneral}

// ThumbnailSize is the bounding box of generated thumbnails, in pixels.
const ThumbnailSize = 300

// IsRasterImage returns true for image types that can be decoded and thumbnailed.
func IsRasterImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// IsSupportedMimeType checks if a MIME type may be uploaded.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP, MimeTypeSVG,
		MimeTypePDF, MimeTypeMP4, MimeTypeWebM:
		return true
	default:
		return false
	}
}

// FolderFor returns the default folder for a MIME type.
func FolderFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FolderImages
	case strings.HasPrefix(mimeType, "video/"):
		return FolderVideos
	case mimeType == MimeTypePDF:
		return FolderDocuments
	default:
		return FolderGeneral
	}
}

// IsMediaFolder reports whether folder is a known media folder.
func IsMediaFolder(folder string) bool {
	for _, f := range MediaFolders {
		if f == folder {
			return true
		}
	}
	return false
}
