package model

import "strings"

// ResourceType is a coarse classification of what an entry fetched.
type ResourceType string

const (
	ResourceHTML       ResourceType = "html"
	ResourceCSS        ResourceType = "css"
	ResourceJavaScript ResourceType = "javascript"
	ResourceImage      ResourceType = "image"
	ResourceFont       ResourceType = "font"
	ResourceXHR        ResourceType = "xhr"
	ResourceFetch      ResourceType = "fetch"
	ResourceWebSocket  ResourceType = "websocket"
	ResourceMedia      ResourceType = "media"
	ResourceManifest   ResourceType = "manifest"
	ResourceOther      ResourceType = "other"
)

// ResourceTypes lists every resource type, in display order.
var ResourceTypes = []ResourceType{
	ResourceHTML,
	ResourceCSS,
	ResourceJavaScript,
	ResourceImage,
	ResourceFont,
	ResourceXHR,
	ResourceFetch,
	ResourceWebSocket,
	ResourceMedia,
	ResourceManifest,
	ResourceOther,
}

// DetectResourceType classifies an entry from its response mime type, falling
// back to url and status heuristics. First match wins.
func DetectResourceType(mimeType, url string, status int) ResourceType {
	mime := strings.ToLower(mimeType)
	lowerURL := strings.ToLower(url)

	switch {
	case strings.Contains(mime, "html"):
		return ResourceHTML
	case strings.Contains(mime, "css"):
		return ResourceCSS
	case strings.Contains(mime, "javascript"), strings.Contains(mime, "ecmascript"):
		return ResourceJavaScript
	case strings.Contains(mime, "json"), strings.Contains(mime, "xml"):
		return ResourceXHR
	case strings.HasPrefix(mime, "image/"):
		return ResourceImage
	case strings.HasPrefix(mime, "font/"), strings.Contains(mime, "woff"), strings.Contains(mime, "ttf"):
		return ResourceFont
	case strings.HasPrefix(mime, "video/"), strings.HasPrefix(mime, "audio/"):
		return ResourceMedia
	case strings.Contains(lowerURL, "manifest.json"), strings.Contains(mime, "manifest"):
		return ResourceManifest
	case strings.Contains(lowerURL, "websocket"), status == 101:
		return ResourceWebSocket
	case strings.Contains(mime, "fetch"):
		return ResourceFetch
	}

	return ResourceOther
}
