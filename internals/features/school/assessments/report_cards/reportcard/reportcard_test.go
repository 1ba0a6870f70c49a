package reportcard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, Round2(12.3456))
	assert.Equal(t, -1.5, Round2(-1.499999))
	assert.Equal(t, 10.0, Round2(10))
}

func TestAppreciation(t *testing.T) {
	cases := []struct {
		avg, scale float64
		want       string
	}{
		{16, 20, "Très bien"},
		{15.99, 20, "Bien"},
		{12, 20, "Assez bien"},
		{10, 20, "Passable"},
		{9.99, 20, "Insuffisant"},
		{80, 100, "Très bien"},
		{50, 100, "Passable"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Appreciation(tc.avg, tc.scale), "avg=%v scale=%v", tc.avg, tc.scale)
	}
}

func TestRanksShareTies(t *testing.T) {
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	f := func(v float64) *float64 { return &v }
	r := Ranks(map[uuid.UUID]*float64{a: f(15), b: f(12), c: f(12), d: f(9), e: nil})

	assert.Equal(t, 1, r[a])
	assert.Equal(t, 2, r[b])
	assert.Equal(t, 2, r[c])
	assert.Equal(t, 4, r[d])
	_, ranked := r[e]
	assert.False(t, ranked)
}

func TestComputeWeightedAverages(t *testing.T) {
	math, french := uuid.New(), uuid.New()
	alice, bob, carl := uuid.New(), uuid.New(), uuid.New()

	subjects := []Subject{
		{ID: math, Name: "Mathématiques", Coefficient: 3},
		{ID: french, Name: "Français", Coefficient: 2},
	}
	students := []Student{{ID: alice, FullName: "Alice"}, {ID: bob, FullName: "Bob"}, {ID: carl, FullName: "Carl"}}
	grades := []Grade{
		// alice math: 15/20 coef 1, 8/10 coef 2 with type weight 1.5 -> (15*1 + 16*3) / 4 = 15.75
		{StudentID: alice, SubjectID: math, Score: 15, MaxScore: 20, Coefficient: 1},
		{StudentID: alice, SubjectID: math, Score: 8, MaxScore: 10, Coefficient: 2, TypeWeight: 1.5},
		{StudentID: alice, SubjectID: french, Score: 12, MaxScore: 20, Coefficient: 1},
		{StudentID: bob, SubjectID: math, Score: 10, MaxScore: 20, Coefficient: 1},
	}

	res := Compute(students, subjects, grades, Settings{Scale: 20, PassingMark: 10})
	require.Len(t, res.Cards, 3)

	ca := res.Cards[0]
	require.NotNil(t, ca.Subjects[0].Average)
	assert.Equal(t, 15.75, *ca.Subjects[0].Average)
	assert.Equal(t, 2, ca.Subjects[0].GradeCount)
	assert.Equal(t, 12.0, *ca.Subjects[1].Average)
	// (15.75*3 + 12*2) / 5 = 14.25
	require.NotNil(t, ca.Average)
	assert.Equal(t, 14.25, *ca.Average)
	assert.Equal(t, "Bien", *ca.Appreciation)
	assert.True(t, ca.Passed)
	assert.Equal(t, 1, *ca.Rank)

	cb := res.Cards[1]
	assert.Nil(t, cb.Subjects[1].Average, "no french grade means no french average")
	assert.Equal(t, 10.0, *cb.Average)
	assert.True(t, cb.Passed)
	assert.Equal(t, 2, *cb.Rank)
	assert.Equal(t, 2, *cb.Subjects[0].Rank)

	cc := res.Cards[2]
	assert.Nil(t, cc.Average)
	assert.Nil(t, cc.Rank)
	assert.False(t, cc.Passed)

	assert.Equal(t, 3, res.Stats.StudentCount)
	assert.Equal(t, 2, res.Stats.RankedCount)
	assert.Equal(t, 10.0, *res.Stats.Min)
	assert.Equal(t, 14.25, *res.Stats.Max)
	assert.Equal(t, 12.13, *res.Stats.Mean)
}

func TestComputeRescalesToSchoolScale(t *testing.T) {
	sub, st := uuid.New(), uuid.New()
	res := Compute(
		[]Student{{ID: st}},
		[]Subject{{ID: sub, Coefficient: 1}},
		[]Grade{{StudentID: st, SubjectID: sub, Score: 14, MaxScore: 20, Coefficient: 1}},
		Settings{Scale: 100, PassingMark: 50},
	)
	require.NotNil(t, res.Cards[0].Average)
	assert.Equal(t, 70.0, *res.Cards[0].Average)
	assert.Equal(t, "Bien", *res.Cards[0].Appreciation)
	assert.True(t, res.Cards[0].Passed)
}
