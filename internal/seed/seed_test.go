package seed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleRequest(t *testing.T) {
	req := SampleRequest()
	assert.Equal(t, []string{"CSE110", "MAT110", "PHY112"}, req.Courses)
	assert.Equal(t, int32(3), req.Timeslots)

	// 修改返回值不会影响内置数据
	req.Courses[0] = "changed"
	assert.Equal(t, "CSE110", SampleCourses[0])
}

func TestRandomRequest(t *testing.T) {
	req := RandomRequest(rand.New(rand.NewSource(1)), 8, 6)
	assert.Len(t, req.Courses, 8)
	assert.Equal(t, int32(6), req.Timeslots)
}
