package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

// MatSource returns the next image to stream. The caller closes the Mat.
type MatSource func() (gocv.Mat, error)

// StreamHandler serves images from a MatSource as MJPEG.
type StreamHandler struct {
	source   MatSource
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler emitting fps frames per second.
func NewStreamHandler(source MatSource, fps int) *StreamHandler {
	if fps <= 0 {
		fps = streamFPS
	}
	return &StreamHandler{source: source, interval: time.Second / time.Duration(fps)}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.writeFrame(w); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// writeFrame writes one multipart JPEG part. A missing image is skipped;
// only write failures are returned.
func (h *StreamHandler) writeFrame(w http.ResponseWriter) error {
	mat, err := h.source()
	defer mat.Close()
	if err != nil || mat.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil
	}
	defer buf.Close()

	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", buf.Len()); err != nil {
		return err
	}
	if _, err := w.Write(buf.GetBytes()); err != nil {
		return err
	}
	_, err = fmt.Fprint(w, "\r\n")
	return err
}
