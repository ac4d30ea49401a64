package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"fileicon/internal/error_service"
	"fileicon/internal/icon_service"
	"fileicon/internal/system_icon"
	"fileicon/internal/utils"
)

func SendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	response := map[string]interface{}{
		"message": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("{\"message\": \"Failed to encode response\"}"))
	}
}

func statusCodeForError(err error) int {
	switch {
	case errors.Is(err, error_service.ErrIconNotFound):
		return http.StatusNotFound
	case errors.Is(err, error_service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, error_service.ErrBitmapUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, error_service.ErrInvalidDimensions):
		return http.StatusBadRequest
	case errors.Is(err, error_service.ErrUnsupportedOS):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// iconRequestDims reads the requested output dimensions from the query.
// "size" takes small/large, width/height override it with exact pixels.
func iconRequestDims(r *http.Request) (uint, uint, error) {
	size := icon_service.SizeLarge
	if r.URL.Query().Get("size") == string(icon_service.SizeSmall) {
		size = icon_service.SizeSmall
	}
	width := size.PixelSize()
	height := size.PixelSize()

	if raw := r.URL.Query().Get("width"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 16)
		if err != nil || parsed == 0 {
			return 0, 0, errors.New("invalid width")
		}
		width = uint(parsed)
		height = uint(parsed)
	}
	if raw := r.URL.Query().Get("height"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 16)
		if err != nil || parsed == 0 {
			return 0, 0, errors.New("invalid height")
		}
		height = uint(parsed)
	}
	return width, height, nil
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

func GetIconHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		SendErrorResponse(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	width, height, err := iconRequestDims(r)
	if err != nil {
		SendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	image, err := getIcon(r, path, width, height)
	if err != nil {
		SendErrorResponse(w, err.Error(), statusCodeForError(err))
		return
	}
	pngData, err := image.PNG()
	if err != nil {
		SendErrorResponse(w, err.Error(), statusCodeForError(err))
		return
	}

	log.Printf("Serving %dx%d icon for %s (%s)", image.Width, image.Height, path, utils.FormatBytes(len(pngData)))
	w.Header().Set("Content-Type", "image/png")
	w.Write(pngData)
}

func GetIconBase64Handler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		SendErrorResponse(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	width, height, err := iconRequestDims(r)
	if err != nil {
		SendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	image, err := getIcon(r, path, width, height)
	if err != nil {
		SendErrorResponse(w, err.Error(), statusCodeForError(err))
		return
	}
	base64Png, err := image.AsBase64PNG()
	if err != nil {
		SendErrorResponse(w, err.Error(), statusCodeForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(base64Png)
}

func GetExtensionIconHandler(w http.ResponseWriter, r *http.Request) {
	extension := r.PathValue("extension")
	if extension == "" {
		SendErrorResponse(w, "extension is required", http.StatusBadRequest)
		return
	}
	large := r.URL.Query().Get("size") != string(icon_service.SizeSmall)

	rgba, err := system_icon.GetFileExtensionIconRGBA(extension, large)
	if err != nil {
		SendErrorResponse(w, err.Error(), statusCodeForError(err))
		return
	}
	pngData, err := utils.EncodePNG(rgba)
	if err != nil {
		SendErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(pngData)
}

func GetCacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"enabled": IconCache != nil,
		"entries": 0,
	}
	if IconCache != nil {
		stats["entries"] = IconCache.Len()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// getIcon goes through the cache when one is configured.
func getIcon(r *http.Request, path string, width, height uint) (*icon_service.Image, error) {
	if IconCache != nil {
		return IconCache.Get(r.Context(), path, width, height)
	}
	return icon_service.TryNewFromFile(r.Context(), path, width, height)
}
