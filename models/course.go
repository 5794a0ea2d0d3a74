package models

// FileRef points at one content file inside an imported course folder.
// Path may be empty when the course was imported from a bare file list
// that carried no resolvable location; presence is still recorded.
type FileRef struct {
	Name string `json:"name"`
	Path string `json:"-"`
}

// LessonFiles holds at most one file per content kind.
type LessonFiles struct {
	Video *FileRef `json:"video,omitempty"`
	Srt   *FileRef `json:"srt,omitempty"`
	Pdf   *FileRef `json:"pdf,omitempty"`
	Html  *FileRef `json:"html,omitempty"`
	Txt   *FileRef `json:"txt,omitempty"`
}

type Part struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Course struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CoverImage string `json:"cover_image,omitempty"`
	RootPath   string `json:"-"`
	Parts      []Part `json:"parts"`
}

// Lesson returns the lesson with the given id, or nil.
func (c *Course) Lesson(id string) *Lesson {
	for pi := range c.Parts {
		for li := range c.Parts[pi].Lessons {
			if c.Parts[pi].Lessons[li].ID == id {
				return &c.Parts[pi].Lessons[li]
			}
		}
	}
	return nil
}

// FirstLesson returns the first lesson of the first part, or nil for an
// empty course.
func (c *Course) FirstLesson() *Lesson {
	if len(c.Parts) == 0 || len(c.Parts[0].Lessons) == 0 {
		return nil
	}
	return &c.Parts[0].Lessons[0]
}

// Summary reduces a course to its persistable form, dropping file refs in
// favor of presence flags.
func (c *Course) Summary() StoredCourse {
	sc := StoredCourse{
		ID:         c.ID,
		Name:       c.Name,
		CoverImage: c.CoverImage,
		RootPath:   c.RootPath,
	}
	for _, p := range c.Parts {
		sp := StoredPart{ID: p.ID, Title: p.Title}
		for _, l := range p.Lessons {
			sp.Lessons = append(sp.Lessons, StoredLesson{
				ID:               l.ID,
				Title:            l.Title,
				Part:             l.Part,
				HasVideo:         l.Files.Video != nil,
				HasSrt:           l.Files.Srt != nil,
				HasPdf:           l.Files.Pdf != nil,
				HasHtml:          l.Files.Html != nil,
				HasTxt:           l.Files.Txt != nil,
				LearningProgress: l.LearningProgress,
				VocabGenerated:   l.VocabGenerated,
			})
		}
		sc.Parts = append(sc.Parts, sp)
	}
	return sc
}

// StoredCourse is the persisted summary of a Course: presence flags instead
// of live file refs, plus progress and vocabulary flags.
type StoredCourse struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CoverImage string       `json:"cover_image,omitempty"`
	RootPath   string       `json:"-"`
	Parts      []StoredPart `json:"parts"`
}

type StoredPart struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Lessons []StoredLesson `json:"lessons"`
}

type StoredLesson struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Part             string           `json:"part"`
	HasVideo         bool             `json:"hasVideo"`
	HasSrt           bool             `json:"hasSrt"`
	HasPdf           bool             `json:"hasPdf"`
	HasHtml          bool             `json:"hasHtml"`
	HasTxt           bool             `json:"hasTxt"`
	LearningProgress LearningProgress `json:"learningProgress"`
	VocabGenerated   bool             `json:"vocabGenerated"`
}

// Skeleton rehydrates a stored summary into a Course with no file refs.
// Presence flags are intentionally dropped: refs are re-acquired by
// reconciling against a fresh scan.
func (sc *StoredCourse) Skeleton() *Course {
	course := &Course{
		ID:         sc.ID,
		Name:       sc.Name,
		CoverImage: sc.CoverImage,
		RootPath:   sc.RootPath,
	}
	for _, sp := range sc.Parts {
		p := Part{ID: sp.ID, Title: sp.Title}
		for _, sl := range sp.Lessons {
			p.Lessons = append(p.Lessons, Lesson{
				ID:               sl.ID,
				Title:            sl.Title,
				Part:             sl.Part,
				LearningProgress: sl.LearningProgress,
				VocabGenerated:   sl.VocabGenerated,
			})
		}
		course.Parts = append(course.Parts, p)
	}
	return course
}
