package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langlab_backend/models"
)

func writeCourseDir(t *testing.T, files []string) string {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "English Basics")
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return root
}

var greetingsFiles = []string{
	"cover.jpg",
	"Part 1/1 Greetings.mp4",
	"Part 1/1 Greetings.srt",
	"Part 1/2 Numbers.mp4",
	"Part 1/10 Colors.mp4",
	"Part 1/notes.docx",
	"Part 2/1 Food.pdf",
	"Part 2/1 Food.txt",
}

func TestImportFromDirectory(t *testing.T) {
	root := writeCourseDir(t, greetingsFiles)

	course, err := Import(context.Background(), &DirSource{Path: root})
	require.NoError(t, err)

	assert.Equal(t, "English Basics", course.Name)
	assert.Equal(t, root, course.RootPath)
	assert.NotEmpty(t, course.CoverImage)
	require.Len(t, course.Parts, 2)

	part1 := course.Parts[0]
	require.Len(t, part1.Lessons, 3)
	assert.Equal(t, "Greetings", part1.Lessons[0].Title)
	assert.Equal(t, "Numbers", part1.Lessons[1].Title)
	// Numeric ordering: 10 sorts after 2, not between 1 and 2.
	assert.Equal(t, "Colors", part1.Lessons[2].Title)

	lesson := part1.Lessons[0]
	require.NotNil(t, lesson.Files.Video)
	require.NotNil(t, lesson.Files.Srt)
	assert.Nil(t, lesson.Files.Pdf)
	assert.FileExists(t, lesson.Files.Video.Path)

	food := course.Parts[1].Lessons[0]
	assert.Nil(t, food.Files.Video)
	assert.NotNil(t, food.Files.Pdf)
	assert.NotNil(t, food.Files.Txt)
}

func TestImportModeEquivalence(t *testing.T) {
	root := writeCourseDir(t, greetingsFiles)

	fromDir, err := Import(context.Background(), &DirSource{Path: root})
	require.NoError(t, err)

	paths := make([]string, 0, len(greetingsFiles))
	for _, f := range greetingsFiles {
		paths = append(paths, "English Basics/"+f)
	}
	fromList, err := Import(context.Background(), &ListSource{
		Root:    "English Basics",
		Paths:   paths,
		BaseDir: filepath.Dir(root),
	})
	require.NoError(t, err)

	// The two access modes must produce the same tree shape.
	require.Len(t, fromList.Parts, len(fromDir.Parts))
	for pi := range fromDir.Parts {
		require.Len(t, fromList.Parts[pi].Lessons, len(fromDir.Parts[pi].Lessons))
		for li := range fromDir.Parts[pi].Lessons {
			assert.Equal(t, fromDir.Parts[pi].Lessons[li].ID, fromList.Parts[pi].Lessons[li].ID)
			assert.Equal(t, fromDir.Parts[pi].Lessons[li].Title, fromList.Parts[pi].Lessons[li].Title)
		}
	}
}

func TestImportListWithoutBaseDir(t *testing.T) {
	course, err := Import(context.Background(), &ListSource{
		Root:  "Course",
		Paths: []string{"Course/Part 1/1 Intro.mp4", "Course/Part 1/1 Intro.srt"},
	})
	require.NoError(t, err)

	lesson := course.Parts[0].Lessons[0]
	// Presence is recorded even when no readable location exists.
	require.NotNil(t, lesson.Files.Video)
	assert.Equal(t, "1 Intro.mp4", lesson.Files.Video.Name)
	assert.Empty(t, lesson.Files.Video.Path)
}

func TestImportEmptySelection(t *testing.T) {
	_, err := Import(context.Background(), &ListSource{Root: "Course"})
	assert.ErrorIs(t, err, models.ErrNoFilesSelected)
}

func TestImportMissingDirectory(t *testing.T) {
	_, err := Import(context.Background(), &DirSource{Path: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
}

func TestImportIgnoresDeepAndUnmatchedFiles(t *testing.T) {
	root := writeCourseDir(t, []string{
		"Part 1/1 Intro.mp4",
		"Part 1/extras/9 Hidden.mp4",
		"Part 1/thumbnail.png",
		"Part 1/readme.txt",
	})

	course, err := Import(context.Background(), &DirSource{Path: root})
	require.NoError(t, err)
	require.Len(t, course.Parts, 1)
	require.Len(t, course.Parts[0].Lessons, 1)
	assert.Equal(t, "Intro", course.Parts[0].Lessons[0].Title)
}

func TestImportDropsEmptyParts(t *testing.T) {
	root := writeCourseDir(t, []string{
		"Part 1/1 Intro.mp4",
		"Part 2/junk.docx",
	})

	course, err := Import(context.Background(), &DirSource{Path: root})
	require.NoError(t, err)
	require.Len(t, course.Parts, 1)
	assert.Equal(t, "Part 1", course.Parts[0].ID)
}

func TestCompareNumericIDs(t *testing.T) {
	assert.Negative(t, compareNumericIDs("2", "10"))
	assert.Positive(t, compareNumericIDs("10", "2"))
	assert.Zero(t, compareNumericIDs("7", "7"))
	assert.Negative(t, compareNumericIDs("02", "2"))
}
