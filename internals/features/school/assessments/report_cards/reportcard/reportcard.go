// Package reportcard computes term averages, ranks and class statistics
// from raw grades. It does no I/O.
package reportcard

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

type Settings struct {
	Scale       float64 // grading scale, 20 by default
	PassingMark float64 // on the same scale
}

type Student struct {
	ID       uuid.UUID
	FullName string
}

type Subject struct {
	ID          uuid.UUID
	Name        string
	Code        *string
	Coefficient float64
}

// Grade is one score with the weights of its assessment.
// TypeWeight is 0 when the assessment has no configured type.
type Grade struct {
	StudentID   uuid.UUID
	SubjectID   uuid.UUID
	Score       float64
	MaxScore    float64
	Coefficient float64
	TypeWeight  float64
}

type SubjectResult struct {
	SubjectID    uuid.UUID `json:"subjectId"`
	SubjectName  string    `json:"subjectName"`
	SubjectCode  *string   `json:"subjectCode,omitempty"`
	Coefficient  float64   `json:"coefficient"`
	GradeCount   int       `json:"gradeCount"`
	Average      *float64  `json:"average"`
	Rank         *int      `json:"rank"`
	Appreciation *string   `json:"appreciation"`
}

type Card struct {
	StudentID    uuid.UUID       `json:"studentId"`
	FullName     string          `json:"fullName"`
	Subjects     []SubjectResult `json:"subjects"`
	Average      *float64        `json:"average"`
	Rank         *int            `json:"rank"`
	Appreciation *string         `json:"appreciation"`
	Passed       bool            `json:"passed"`
}

type Stats struct {
	StudentCount int      `json:"studentCount"`
	RankedCount  int      `json:"rankedCount"`
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
	Mean         *float64 `json:"mean"`
}

type Result struct {
	Scale       float64 `json:"scale"`
	PassingMark float64 `json:"passingMark"`
	Cards       []Card  `json:"students"`
	Stats       Stats   `json:"stats"`
}

// Round2 rounds half away from zero to 2 decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Appreciation is read on the /20 equivalent of avg.
func Appreciation(avg, scale float64) string {
	if scale <= 0 {
		scale = 20
	}
	v := Round2(avg * 20 / scale)
	switch {
	case v >= 16:
		return "Très bien"
	case v >= 14:
		return "Bien"
	case v >= 12:
		return "Assez bien"
	case v >= 10:
		return "Passable"
	default:
		return "Insuffisant"
	}
}

// Ranks gives competition ranks (1, 2, 2, 4) by descending value; nil values are unranked.
func Ranks(values map[uuid.UUID]*float64) map[uuid.UUID]int {
	type kv struct {
		id uuid.UUID
		v  float64
	}
	list := make([]kv, 0, len(values))
	for id, v := range values {
		if v != nil {
			list = append(list, kv{id, *v})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].v != list[j].v {
			return list[i].v > list[j].v
		}
		return list[i].id.String() < list[j].id.String()
	})
	out := make(map[uuid.UUID]int, len(list))
	for i, e := range list {
		if i > 0 && e.v == list[i-1].v {
			out[e.id] = out[list[i-1].id]
			continue
		}
		out[e.id] = i + 1
	}
	return out
}

// Compute builds one card per student, in the order given.
func Compute(students []Student, subjects []Subject, grades []Grade, s Settings) Result {
	if s.Scale <= 0 {
		s.Scale = 20
	}

	type acc struct {
		sum, weight float64
		n           int
	}
	bucket := map[uuid.UUID]map[uuid.UUID]*acc{}
	for _, g := range grades {
		if g.MaxScore <= 0 {
			continue
		}
		w := g.Coefficient
		if g.TypeWeight > 0 {
			w *= g.TypeWeight
		}
		if w <= 0 {
			continue
		}
		bySubject, ok := bucket[g.StudentID]
		if !ok {
			bySubject = map[uuid.UUID]*acc{}
			bucket[g.StudentID] = bySubject
		}
		a, ok := bySubject[g.SubjectID]
		if !ok {
			a = &acc{}
			bySubject[g.SubjectID] = a
		}
		a.sum += g.Score / g.MaxScore * s.Scale * w
		a.weight += w
		a.n++
	}

	cards := make([]Card, len(students))
	general := make(map[uuid.UUID]*float64, len(students))
	perSubject := make(map[uuid.UUID]map[uuid.UUID]*float64, len(subjects))
	for _, sub := range subjects {
		perSubject[sub.ID] = map[uuid.UUID]*float64{}
	}

	for i, st := range students {
		card := Card{StudentID: st.ID, FullName: st.FullName, Subjects: make([]SubjectResult, 0, len(subjects))}
		var sum, coefSum float64
		for _, sub := range subjects {
			res := SubjectResult{SubjectID: sub.ID, SubjectName: sub.Name, SubjectCode: sub.Code, Coefficient: sub.Coefficient}
			if a := bucket[st.ID][sub.ID]; a != nil && a.weight > 0 {
				avg := Round2(a.sum / a.weight)
				res.Average = &avg
				res.GradeCount = a.n
				app := Appreciation(avg, s.Scale)
				res.Appreciation = &app
				perSubject[sub.ID][st.ID] = &avg
				if sub.Coefficient > 0 {
					sum += avg * sub.Coefficient
					coefSum += sub.Coefficient
				}
			}
			card.Subjects = append(card.Subjects, res)
		}
		if coefSum > 0 {
			avg := Round2(sum / coefSum)
			card.Average = &avg
			app := Appreciation(avg, s.Scale)
			card.Appreciation = &app
			card.Passed = avg >= s.PassingMark
		}
		general[st.ID] = card.Average
		cards[i] = card
	}

	ranks := Ranks(general)
	subjectRanks := make(map[uuid.UUID]map[uuid.UUID]int, len(perSubject))
	for id, vals := range perSubject {
		subjectRanks[id] = Ranks(vals)
	}
	for i := range cards {
		if r, ok := ranks[cards[i].StudentID]; ok {
			r := r
			cards[i].Rank = &r
		}
		for j := range cards[i].Subjects {
			sr := &cards[i].Subjects[j]
			if r, ok := subjectRanks[sr.SubjectID][cards[i].StudentID]; ok {
				r := r
				sr.Rank = &r
			}
		}
	}

	return Result{Scale: s.Scale, PassingMark: s.PassingMark, Cards: cards, Stats: stats(cards)}
}

func stats(cards []Card) Stats {
	st := Stats{StudentCount: len(cards)}
	var sum float64
	for _, c := range cards {
		if c.Average == nil {
			continue
		}
		v := *c.Average
		if st.Min == nil || v < *st.Min {
			st.Min = &v
		}
		if st.Max == nil || v > *st.Max {
			st.Max = &v
		}
		sum += v
		st.RankedCount++
	}
	if st.RankedCount > 0 {
		mean := Round2(sum / float64(st.RankedCount))
		st.Mean = &mean
	}
	return st
}
