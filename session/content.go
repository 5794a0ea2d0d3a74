package session

import (
	"fmt"
	"os"

	"langlab_backend/models"
	"langlab_backend/srt"
)

// loadedContent is the resource currently backing the active view. Video and
// pdf hold an open file for streaming; html and txt are read whole.
type loadedContent struct {
	view View
	ref  *models.FileRef
	file *os.File
	text string
	mime string
	size int64
}

func (lc *loadedContent) close() {
	if lc.file != nil {
		lc.file.Close()
	}
}

// ContentInfo describes the active view's content for the transport layer.
type ContentInfo struct {
	View View
	Name string
	Path string
	Text string
	Mime string
	Size int64
}

func resourceFor(l *models.Lesson, v View) *models.FileRef {
	switch v {
	case ViewVideo:
		return l.Files.Video
	case ViewPdf:
		return l.Files.Pdf
	case ViewHtml:
		return l.Files.Html
	case ViewTxt:
		return l.Files.Txt
	}
	return nil
}

// loadContentLocked acquires the resource for the current lesson and view.
// The previous resource is released first. Disk IO happens with the lock
// dropped; the load token decides afterwards whether the result may be
// committed, so a selection made during a slow load always wins.
func (c *Controller) loadContentLocked() error {
	c.loadToken++
	token := c.loadToken

	if c.content != nil {
		c.content.close()
		c.content = nil
	}
	c.transcript = nil
	c.activeLineID = 0

	lesson := c.course.Lesson(c.activeID)
	if lesson == nil || c.view == ViewNone {
		return nil
	}
	ref := resourceFor(lesson, c.view)
	if ref == nil {
		return nil
	}
	if ref.Path == "" {
		return fmt.Errorf("%w: %s has no readable location", models.ErrContentLoadFailure, ref.Name)
	}
	view := c.view
	srtRef := lesson.Files.Srt

	c.mu.Unlock()
	loaded, transcript, err := openResource(view, ref, srtRef)
	c.mu.Lock()

	if token != c.loadToken {
		// A newer selection took over while we were reading.
		if loaded != nil {
			loaded.close()
		}
		return nil
	}
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %v", models.ErrPermissionDenied, err)
		}
		return fmt.Errorf("%w: %v", models.ErrContentLoadFailure, err)
	}
	c.content = loaded
	c.transcript = transcript
	return nil
}

func openResource(view View, ref, srtRef *models.FileRef) (*loadedContent, []models.TranscriptLine, error) {
	switch view {
	case ViewVideo, ViewPdf:
		f, err := os.Open(ref.Path)
		if err != nil {
			return nil, nil, err
		}
		st, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		mime := "video/mp4"
		if view == ViewPdf {
			mime = "application/pdf"
		}

		var transcript []models.TranscriptLine
		if view == ViewVideo && srtRef != nil && srtRef.Path != "" {
			// An unreadable subtitle file degrades to video without a
			// transcript rather than failing the lesson.
			if raw, rerr := os.ReadFile(srtRef.Path); rerr == nil {
				transcript = srt.Parse(string(raw))
			}
		}
		return &loadedContent{view: view, ref: ref, file: f, mime: mime, size: st.Size()}, transcript, nil

	case ViewHtml, ViewTxt:
		raw, err := os.ReadFile(ref.Path)
		if err != nil {
			return nil, nil, err
		}
		mime := "text/html; charset=utf-8"
		if view == ViewTxt {
			mime = "text/plain; charset=utf-8"
		}
		return &loadedContent{view: view, ref: ref, text: string(raw), mime: mime, size: int64(len(raw))}, nil, nil
	}
	return nil, nil, fmt.Errorf("no resource for view %q", view)
}

// Content returns what the active view is showing.
func (c *Controller) Content() (ContentInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.content == nil {
		return ContentInfo{}, fmt.Errorf("%w: no content loaded for this view", models.ErrNotFound)
	}
	info := ContentInfo{
		View: c.content.view,
		Name: c.content.ref.Name,
		Text: c.content.text,
		Mime: c.content.mime,
		Size: c.content.size,
	}
	if c.content.file != nil {
		info.Path = c.content.ref.Path
	}
	return info, nil
}
