package risk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideferri/interro-risk-api/internal/models"
)

func interrogation(studentID, date string) models.Interrogation {
	return models.Interrogation{
		ID:        studentID + "@" + date,
		StudentID: studentID,
		SubjectID: "sub-math",
		Date:      date,
	}
}

func TestEffectiveInterrogatedEmptyHistory(t *testing.T) {
	effective := EffectiveInterrogated(nil, "sub-math", 20, models.DefaultClassConfig())
	assert.Empty(t, effective)
}

func TestEffectiveInterrogatedIgnoresOtherSubjects(t *testing.T) {
	history := []models.Interrogation{
		{ID: "int-1", StudentID: "stu-01", SubjectID: "sub-hist", Date: "2024-10-01"},
	}
	effective := EffectiveInterrogated(history, "sub-math", 20, models.DefaultClassConfig())
	assert.Empty(t, effective)
}

func TestEffectiveInterrogatedBelowThresholdUntouched(t *testing.T) {
	var history []models.Interrogation
	for i := 1; i <= 10; i++ {
		history = append(history, interrogation(fmt.Sprintf("stu-%02d", i), fmt.Sprintf("2024-10-%02d", i)))
	}
	effective := EffectiveInterrogated(history, "sub-math", 20, models.DefaultClassConfig())
	assert.Len(t, effective, 10)
}

func TestEffectiveInterrogatedDropsOldestOnReset(t *testing.T) {
	// 17 examined out of 20; threshold count ceil(80%*20)=16, return 2.
	var history []models.Interrogation
	for i := 1; i <= 17; i++ {
		history = append(history, interrogation(fmt.Sprintf("stu-%02d", i), fmt.Sprintf("2024-10-%02d", i)))
	}
	effective := EffectiveInterrogated(history, "sub-math", 20, models.DefaultClassConfig())

	require.Len(t, effective, 15)
	assert.NotContains(t, effective, "stu-01")
	assert.NotContains(t, effective, "stu-02")
	assert.Contains(t, effective, "stu-03")
	assert.Contains(t, effective, "stu-17")
}

func TestEffectiveInterrogatedRepeatsResetUntilBelowThreshold(t *testing.T) {
	// cycleReturn 1 forces multiple trim iterations.
	cfg := models.DefaultClassConfig()
	cfg.CycleThreshold = 50
	cfg.CycleReturn = 1
	var history []models.Interrogation
	for i := 1; i <= 10; i++ {
		history = append(history, interrogation(fmt.Sprintf("stu-%02d", i), fmt.Sprintf("2024-10-%02d", i)))
	}
	effective := EffectiveInterrogated(history, "sub-math", 10, cfg)

	// threshold count is 5; trimming one at a time stops at 4.
	require.Len(t, effective, 4)
	assert.NotContains(t, effective, "stu-06")
	assert.Contains(t, effective, "stu-07")
}

func TestEffectiveInterrogatedLatestDateSupersedes(t *testing.T) {
	cfg := models.DefaultClassConfig()
	cfg.CycleThreshold = 60 // threshold count for N=5 is 3
	cfg.CycleReturn = 1
	history := []models.Interrogation{
		interrogation("stu-01", "2024-10-01"),
		interrogation("stu-02", "2024-10-02"),
		interrogation("stu-03", "2024-10-03"),
		// stu-01 examined again: moves to the back of the removal order.
		interrogation("stu-01", "2024-10-04"),
	}
	effective := EffectiveInterrogated(history, "sub-math", 5, cfg)

	require.Len(t, effective, 2)
	assert.NotContains(t, effective, "stu-02")
	assert.Contains(t, effective, "stu-01")
	assert.Contains(t, effective, "stu-03")
}

func TestEffectiveInterrogatedTieBreakByStudentID(t *testing.T) {
	cfg := models.DefaultClassConfig()
	cfg.CycleThreshold = 60
	cfg.CycleReturn = 1
	history := []models.Interrogation{
		interrogation("stu-b", "2024-10-01"),
		interrogation("stu-a", "2024-10-01"),
		interrogation("stu-c", "2024-10-01"),
	}
	effective := EffectiveInterrogated(history, "sub-math", 5, cfg)

	require.Len(t, effective, 2)
	assert.NotContains(t, effective, "stu-a")
	assert.Contains(t, effective, "stu-b")
	assert.Contains(t, effective, "stu-c")
}

func TestCycleInvariantHoldsForArbitraryShapes(t *testing.T) {
	for _, tc := range []struct {
		n         int
		examined  int
		threshold int
		ret       int
	}{
		{n: 20, examined: 17, threshold: 80, ret: 2},
		{n: 20, examined: 20, threshold: 80, ret: 2},
		{n: 10, examined: 10, threshold: 100, ret: 1},
		{n: 7, examined: 7, threshold: 50, ret: 3},
		{n: 1, examined: 1, threshold: 1, ret: 1},
		{n: 25, examined: 13, threshold: 40, ret: 5},
	} {
		cfg := models.DefaultClassConfig()
		cfg.CycleThreshold = tc.threshold
		cfg.CycleReturn = tc.ret
		var history []models.Interrogation
		for i := 1; i <= tc.examined; i++ {
			history = append(history, interrogation(fmt.Sprintf("stu-%03d", i), fmt.Sprintf("2024-%02d-%02d", 1+i/28, 1+i%28)))
		}
		effective := EffectiveInterrogated(history, "sub-math", tc.n, cfg)
		limit := ceilPercent(tc.threshold, tc.n)
		assert.Less(t, len(effective), limit,
			"N=%d examined=%d threshold=%d return=%d", tc.n, tc.examined, tc.threshold, tc.ret)
	}
}
