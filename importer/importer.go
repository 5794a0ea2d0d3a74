package importer

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"langlab_backend/models"
)

// lessonFilePattern groups files into lessons: leading numeric id, optional
// whitespace, title remainder, recognized extension.
var (
	lessonFilePattern = regexp.MustCompile(`(?i)^(\d+)\s*(.*?)\.(mp4|srt|pdf|html|txt)$`)
	coverFilePattern  = regexp.MustCompile(`(?i)^cover\.(jpe?g|png|webp)$`)
)

type lessonGroup struct {
	id    string
	title string
	part  string
	files map[string]*models.FileRef
}

// Import builds the canonical course tree from a source. Both source modes
// must produce identical trees for equivalent folder structures; entries are
// sorted before grouping so that duplicate-kind resolution (first file wins)
// does not depend on traversal order.
func Import(ctx context.Context, src Source) (*models.Course, error) {
	entries, err := src.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, models.ErrNoFilesSelected
	}

	root := src.Name()
	course := &models.Course{ID: root, Name: root}
	if ds, ok := src.(*DirSource); ok {
		course.RootPath = ds.Path
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })

	groups := make(map[string]*lessonGroup)
	partsSet := make(map[string]bool)

	for _, entry := range entries {
		segments := strings.Split(entry.RelPath, "/")
		if len(segments) == 2 && segments[0] == root {
			if course.CoverImage == "" && coverFilePattern.MatchString(segments[1]) {
				course.CoverImage = coverPath(entry)
			}
			continue
		}
		// Exactly root/part/file; anything deeper or shallower is ignored.
		if len(segments) != 3 || segments[0] != root {
			continue
		}
		partName, fileName := segments[1], segments[2]

		match := lessonFilePattern.FindStringSubmatch(fileName)
		if match == nil {
			// Extraneous files (thumbnails, notes) must not break import.
			continue
		}
		id, title, ext := match[1], strings.TrimSpace(match[2]), strings.ToLower(match[3])

		partsSet[partName] = true
		key := partName + "-" + id
		group, ok := groups[key]
		if !ok {
			group = &lessonGroup{id: id, title: title, part: partName, files: make(map[string]*models.FileRef)}
			groups[key] = group
		}
		if _, taken := group.files[ext]; !taken {
			ref := entry.Ref
			if ref == nil {
				ref = &models.FileRef{Name: fileName}
			}
			group.files[ext] = ref
		}
	}

	partNames := lo.Keys(partsSet)
	sort.Strings(partNames)

	for _, partName := range partNames {
		part := models.Part{ID: partName, Title: partName}

		partGroups := lo.Filter(lo.Values(groups), func(g *lessonGroup, _ int) bool {
			return g.part == partName
		})
		sort.Slice(partGroups, func(i, j int) bool {
			return compareNumericIDs(partGroups[i].id, partGroups[j].id) < 0
		})

		part.Lessons = lo.Map(partGroups, func(g *lessonGroup, _ int) models.Lesson {
			return models.Lesson{
				ID:    g.part + "-" + g.id,
				Title: g.title,
				Part:  g.part,
				Files: models.LessonFiles{
					Video: g.files["mp4"],
					Srt:   g.files["srt"],
					Pdf:   g.files["pdf"],
					Html:  g.files["html"],
					Txt:   g.files["txt"],
				},
			}
		})

		if len(part.Lessons) > 0 {
			course.Parts = append(course.Parts, part)
		}
	}

	return course, nil
}

func coverPath(entry FileEntry) string {
	if entry.Ref != nil && entry.Ref.Path != "" {
		return entry.Ref.Path
	}
	return path.Base(entry.RelPath)
}

// compareNumericIDs orders lesson ids numerically: "2" before "10". Ids are
// arbitrary-length digit strings, so compare by magnitude (length after
// stripping leading zeros, then lexically) instead of parsing.
func compareNumericIDs(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}
	if ta != tb {
		return strings.Compare(ta, tb)
	}
	// "02" and "2" compare equal numerically; keep a stable rule.
	return strings.Compare(a, b)
}
