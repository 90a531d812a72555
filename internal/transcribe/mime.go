package transcribe

import (
	"log"
	"mime"
	"path/filepath"
	"strings"
)

const fallbackMIMEType = "audio/mp4"

// audioTypes are the media types the provider accepts, keyed by extension.
var audioTypes = map[string]string{
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".aac":  "audio/aac",
}

func init() {
	for ext, typ := range audioTypes {
		ensureMimeType(ext, typ)
	}
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("transcribe: failed to register MIME type for %s: %v", ext, err)
	}
}

// detectMIMEType prefers the declared part type and falls back to the file
// extension. Generic binary declarations are ignored.
func detectMIMEType(declared, filename string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if typ, ok := audioTypes[ext]; ok {
		return typ
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		mediaType, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			return mediaType
		}
	}
	return fallbackMIMEType
}
