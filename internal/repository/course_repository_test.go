package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/course-service/internal/domain"
)

func TestBuildCourseListQuery_Defaults(t *testing.T) {
	list, count, args := buildCourseListQuery(CourseFilter{})

	assert.Empty(t, args)
	assert.Contains(t, list, "ORDER BY c.publication_order ASC, c.id LIMIT 10 OFFSET 0")
	assert.Equal(t, "SELECT COUNT(*) FROM courses c WHERE 1=1", count)
}

func TestBuildCourseListQuery_Filters(t *testing.T) {
	moduleID := "m1"
	format := domain.ContentFormatVideo
	status := domain.CourseStatusPublished
	title := " go_basics "

	list, count, args := buildCourseListQuery(CourseFilter{
		ModuleID:      &moduleID,
		ContentFormat: &format,
		Status:        &status,
		Title:         &title,
		Tags:          []string{"go", "web"},
		SortBy:        "duree",
		Desc:          true,
		Limit:         5,
		Offset:        10,
	})

	assert.Len(t, args, 5)
	assert.Equal(t, "m1", args[0])
	assert.Equal(t, `%go\_basics%`, args[3])
	assert.Equal(t, []string{"go", "web"}, args[4])
	assert.Contains(t, list, "c.module_id=$1 AND c.content_format=$2 AND c.status=$3 AND c.title ILIKE $4 AND c.tags && $5")
	assert.Contains(t, list, "ORDER BY c.duration DESC, c.id LIMIT 5 OFFSET 10")
	assert.True(t, strings.HasPrefix(count, "SELECT COUNT(*) FROM courses c WHERE 1=1 AND c.module_id=$1"))
}

func TestBuildCourseListQuery_UnknownSortFallsBack(t *testing.T) {
	list, _, _ := buildCourseListQuery(CourseFilter{SortBy: "id; DROP TABLE courses"})

	assert.NotContains(t, list, "DROP")
	assert.Contains(t, list, "ORDER BY c.publication_order ASC")
}
